// Package value holds the scalar values that flow in and out of the builders:
// literals passed to clauses and inserts, and the cells of result records.
package value

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a closed set of scalar kinds. Only the types declared in this
// package implement it.
type Value interface {
	// Interface returns the plain Go value, nil for Null.
	Interface() any
	isValue()
}

type (
	Null      struct{}
	Int       int64
	Uint      uint64
	Float     float64
	Bool      bool
	Text      string
	Bytes     []byte
	Date      time.Time
	TimeOfDay time.Time
	DateTime  time.Time
	// Other carries anything that is not one of the kinds above. It is escaped
	// by its default string form.
	Other struct{ V any }
)

func (Null) isValue()      {}
func (Int) isValue()       {}
func (Uint) isValue()      {}
func (Float) isValue()     {}
func (Bool) isValue()      {}
func (Text) isValue()      {}
func (Bytes) isValue()     {}
func (Date) isValue()      {}
func (TimeOfDay) isValue() {}
func (DateTime) isValue()  {}
func (Other) isValue()     {}

func (Null) Interface() any        { return nil }
func (v Int) Interface() any       { return int64(v) }
func (v Uint) Interface() any      { return uint64(v) }
func (v Float) Interface() any     { return float64(v) }
func (v Bool) Interface() any      { return bool(v) }
func (v Text) Interface() any      { return string(v) }
func (v Bytes) Interface() any     { return []byte(v) }
func (v Date) Interface() any      { return time.Time(v) }
func (v TimeOfDay) Interface() any { return time.Time(v) }
func (v DateTime) Interface() any  { return time.Time(v) }
func (v Other) Interface() any     { return v.V }

// Of lifts a Go value into a Value. time.Time becomes a DateTime, use Date or
// TimeOfDay directly for the narrower kinds.
func Of(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case int:
		return Int(t)
	case int8:
		return Int(t)
	case int16:
		return Int(t)
	case int32:
		return Int(t)
	case int64:
		return Int(t)
	case uint:
		return Uint(t)
	case uint8:
		return Uint(t)
	case uint16:
		return Uint(t)
	case uint32:
		return Uint(t)
	case uint64:
		return Uint(t)
	case float32:
		return Float(t)
	case float64:
		return Float(t)
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	case []byte:
		if t == nil {
			return Null{}
		}
		return Bytes(t)
	case time.Time:
		return DateTime(t)
	case *time.Time:
		if t == nil {
			return Null{}
		}
		return DateTime(*t)
	case driver.Valuer:
		dv, err := t.Value()
		if err != nil {
			return Other{V: v}
		}
		return Of(dv)
	default:
		return Other{V: v}
	}
}

// FromDriver converts a cell scanned from database/sql. databaseType is the
// driver reported column type, used to tell binary columns from text ones and
// dates from timestamps.
func FromDriver(src any, databaseType string) Value {
	typ := strings.ToUpper(databaseType)
	switch t := src.(type) {
	case []byte:
		if isBinaryType(typ) {
			return Bytes(append([]byte(nil), t...))
		}
		return Text(string(t))
	case time.Time:
		switch typ {
		case "DATE":
			return Date(t)
		case "TIME", "TIMETZ":
			return TimeOfDay(t)
		}
		return DateTime(t)
	}
	return Of(src)
}

func isBinaryType(typ string) bool {
	switch typ {
	case "BLOB", "BYTEA", "BINARY", "VARBINARY", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return true
	}
	return false
}

// Int64 reports v as an int64 when it holds a whole number, which is what
// generated primary keys come back as.
func Int64(v Value) (int64, bool) {
	switch t := v.(type) {
	case Int:
		return int64(t), true
	case Uint:
		return int64(t), true
	case Float:
		return int64(t), float64(int64(t)) == float64(t)
	case Text:
		n, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		return n, err == nil
	case Bytes:
		n, err := strconv.ParseInt(string(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// String renders v for humans (tables, logs). It is not SQL, see Escape.
func String(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return "NULL"
	case Bytes:
		return fmt.Sprintf("%x", []byte(t))
	case Date:
		return time.Time(t).Format(dateLayout)
	case TimeOfDay:
		return time.Time(t).Format(timeLayout)
	case DateTime:
		return time.Time(t).Format(dateTimeLayout)
	}
	return fmt.Sprint(v.Interface())
}
