package router

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// bindQuery fills obj (a pointer to struct) from URL query values, matching
// fields by their json tag. Only the scalar types used by request models are
// supported.
func bindQuery(values url.Values, obj any) error {
	v := reflect.ValueOf(obj).Elem()
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("cannot bind query into %T", obj)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		raw := values.Get(name)
		if raw == "" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q of %s", raw, name)
			}
			fv.SetInt(n)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q of %s", raw, name)
			}
			fv.SetUint(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("invalid value %q of %s", raw, name)
			}
			fv.SetBool(b)
		default:
			return fmt.Errorf("unsupported query field %s", name)
		}
	}

	return nil
}
