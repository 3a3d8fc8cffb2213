package router

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Bind copies the match's path parameters and query values into the
// struct target points to. Fields opt in with a `param:"name"` or
// `query:"name"` tag; absent values leave the field unchanged. A value
// that does not convert to its field's type fails with ErrInvalidParam.
//
//	var p struct {
//	    ID    int    `param:"id"`
//	    Range string `query:"range"`
//	}
//	err := m.Bind(&p)
func (m *Match) Bind(target any) error {
	if m == nil || target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("bind: target must be a pointer, got %s", v.Kind())
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("bind: target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if name := field.Tag.Get("param"); name != "" {
			value, ok := m.Params[name]
			if !ok {
				continue
			}
			if err := setField(fieldValue, []string{value}, true); err != nil {
				return fmt.Errorf("bind param %q: %w: %v", name, ErrInvalidParam, err)
			}
			continue
		}

		if name := field.Tag.Get("query"); name != "" {
			values, ok := m.Query[name]
			if !ok || len(values) == 0 {
				continue
			}
			if err := setField(fieldValue, values, false); err != nil {
				return fmt.Errorf("bind query %q: %w: %v", name, ErrInvalidParam, err)
			}
		}
	}
	return nil
}

// setField sets field from values. A []string field from a path
// parameter receives the catch-all segments.
func setField(field reflect.Value, values []string, fromPath bool) error {
	value := values[0]
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		parts := values
		if fromPath {
			// "a/b/c" → ["a", "b", "c"]
			parts = nil
			if value != "" {
				parts = strings.Split(value, "/")
			}
		}
		field.Set(reflect.ValueOf(append([]string(nil), parts...)))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}
	return nil
}
