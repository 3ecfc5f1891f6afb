package value

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Escape renders v as a SQL literal. It never fails: values it cannot make
// sense of degrade to NULL or to their quoted string form.
func Escape(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return "NULL"
	case Int:
		return strconv.FormatInt(int64(t), 10)
	case Uint:
		return strconv.FormatUint(uint64(t), 10)
	case Bool:
		if t {
			return "1"
		}
		return "0"
	case Text:
		return quote(strings.TrimSpace(string(t)))
	case Bytes:
		return quote(hex.EncodeToString(t))
	case Date:
		return quoteTime(time.Time(t), dateLayout)
	case TimeOfDay:
		return quoteTime(time.Time(t), timeLayout)
	case DateTime:
		return quoteTime(time.Time(t), dateTimeLayout)
	case Float:
		return quote(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case Other:
		return quote(fmt.Sprint(t.V))
	}
	return quote(fmt.Sprint(v.Interface()))
}

// EscapeAny is Escape(Of(v)).
func EscapeAny(v any) string {
	return Escape(Of(v))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteTime(t time.Time, layout string) string {
	if t.IsZero() {
		return "NULL"
	}
	return quote(t.Format(layout))
}
