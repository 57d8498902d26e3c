package hcl

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Converter is the HCL implementation of config.Converter. Unit parameter
// structs declare their attribute names with `fs:"name"` field tags.
type Converter struct{}

// DecodeParams populates target from the evaluated parameters map. Every
// attribute must match a tagged field; an unmatched attribute is a typo in
// the definition file and is rejected.
func (c *Converter) DecodeParams(_ context.Context, target any, params map[string]cty.Value) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a pointer to struct, got %T", target)
	}

	fields := make(map[string]reflect.Value)
	structVal := rv.Elem()
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		tag := structType.Field(i).Tag.Get("fs")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		fields[name] = structVal.Field(i)
	}

	for name, val := range params {
		field, ok := fields[name]
		if !ok {
			return fmt.Errorf("unsupported parameter %q (known parameters: %s)", name, strings.Join(sortedKeys(fields), ", "))
		}
		if err := assign(field, val); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return nil
}

// assign converts a cty value into the given struct field.
func assign(field reflect.Value, val cty.Value) error {
	switch field.Kind() {
	case reflect.Float64:
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return fmt.Errorf("expected a number: %w", err)
		}
		f, _ := num.AsBigFloat().Float64()
		field.SetFloat(f)

	case reflect.Int:
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return fmt.Errorf("expected a number: %w", err)
		}
		i, _ := num.AsBigFloat().Int64()
		field.SetInt(i)

	case reflect.String:
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return fmt.Errorf("expected a string: %w", err)
		}
		field.SetString(str.AsString())

	case reflect.Bool:
		b, err := convert.Convert(val, cty.Bool)
		if err != nil {
			return fmt.Errorf("expected a bool: %w", err)
		}
		field.SetBool(b.True())

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type %s", field.Type().Elem())
		}
		list, err := convert.Convert(val, cty.List(cty.String))
		if err != nil {
			return fmt.Errorf("expected a list of strings: %w", err)
		}
		var out []string
		for it := list.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			out = append(out, elem.AsString())
		}
		field.Set(reflect.ValueOf(out))

	default:
		return fmt.Errorf("unsupported parameter field kind %s", field.Kind())
	}
	return nil
}

func sortedKeys(m map[string]reflect.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
