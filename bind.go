package sqlbuilder

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/golobby/sqlbuilder/value"
)

type fieldTag struct {
	Name    string
	Virtual bool
}

// fieldTagOf parses `sqlbuilder:"col=name"`. col=_ skips the field.
func fieldTagOf(t string) fieldTag {
	var tag fieldTag
	for _, tuple := range strings.Fields(t) {
		parts := strings.SplitN(tuple, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if parts[0] == "col" {
			tag.Name = parts[1]
		}
	}
	if tag.Name == "_" {
		tag.Virtual = true
	}
	return tag
}

func columnOf(f reflect.StructField) (string, bool) {
	tag := fieldTagOf(f.Tag.Get("sqlbuilder"))
	if tag.Virtual || !f.IsExported() {
		return "", false
	}
	if tag.Name != "" {
		return tag.Name, true
	}
	return strcase.ToSnake(f.Name), true
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// Bind copies the records into dest, a pointer to a struct (filled from the
// first record) or to a slice of structs or struct pointers. Struct fields map
// to the snake_case of their name unless tagged `sqlbuilder:"col=name"`.
func (rs Records) Bind(dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("sqlbuilder: bind needs a non nil pointer, got %T", dest)
	}
	v = v.Elem()
	switch v.Kind() {
	case reflect.Struct:
		if len(rs) == 0 {
			return sql.ErrNoRows
		}
		return rs[0].bind(v)
	case reflect.Slice:
		elem := v.Type().Elem()
		isPtr := elem.Kind() == reflect.Ptr
		if isPtr {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			return fmt.Errorf("sqlbuilder: cannot bind into a slice of %s", elem)
		}
		out := reflect.MakeSlice(v.Type(), 0, len(rs))
		for _, r := range rs {
			item := reflect.New(elem)
			if err := r.bind(item.Elem()); err != nil {
				return err
			}
			if isPtr {
				out = reflect.Append(out, item)
			} else {
				out = reflect.Append(out, item.Elem())
			}
		}
		v.Set(out)
		return nil
	}
	return fmt.Errorf("sqlbuilder: cannot bind into %T", dest)
}

func (r Record) bind(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		col, ok := columnOf(t.Field(i))
		if !ok {
			continue
		}
		cell, ok := r[col]
		if !ok {
			continue
		}
		if err := assign(v.Field(i), cell); err != nil {
			return fmt.Errorf("sqlbuilder: bind %s.%s: %w", t.Name(), t.Field(i).Name, err)
		}
	}
	return nil
}

func assign(f reflect.Value, cell value.Value) error {
	if f.CanAddr() && f.Addr().Type().Implements(scannerType) {
		return f.Addr().Interface().(sql.Scanner).Scan(cell.Interface())
	}
	src := cell.Interface()
	if src == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	target := f.Type()
	if target.Kind() == reflect.Ptr {
		p := reflect.New(target.Elem())
		if err := assign(p.Elem(), cell); err != nil {
			return err
		}
		f.Set(p)
		return nil
	}
	sv := reflect.ValueOf(src)
	switch {
	case sv.Type().AssignableTo(target):
		f.Set(sv)
	case target.Kind() == reflect.String:
		f.SetString(value.String(cell))
	case target.Kind() == reflect.Bool:
		n, ok := value.Int64(cell)
		if !ok {
			return fmt.Errorf("cannot use %v as bool", src)
		}
		f.SetBool(n != 0)
	case sv.Type().ConvertibleTo(target) && sv.Kind() != reflect.String:
		f.Set(sv.Convert(target))
	default:
		return fmt.Errorf("cannot use %T as %s", src, target)
	}
	return nil
}
