package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// bindOrder parses "key [asc|desc][, key [asc|desc]]" against the schema's
// whitelisted keys and writes the result to the binding's ordering fields.
// An empty expression yields the schema default as primary.
func bindOrder(dest reflect.Value, raw string, schema OrderSchema) error {
	if schema.DefaultKey == "" {
		return errors.New("order schema default key required")
	}

	primaryKey, primaryDesc := schema.DefaultKey, schema.DefaultDesc
	secondaryKey, secondaryDesc := "", false

	raw = strings.TrimSpace(raw)
	if raw != "" {
		idx := 0
		for _, seg := range strings.Split(raw, ",") {
			parts := strings.Fields(seg)
			if len(parts) == 0 {
				continue
			}
			key := parts[0]
			if !slices.Contains(schema.Keys, key) {
				return fmt.Errorf("field %q cannot be used for ordering", key)
			}
			var desc bool
			switch {
			case len(parts) == 1:
			case len(parts) == 2 && strings.EqualFold(parts[1], "asc"):
			case len(parts) == 2 && strings.EqualFold(parts[1], "desc"):
				desc = true
			default:
				return fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
			}
			switch idx {
			case 0:
				primaryKey, primaryDesc = key, desc
			case 1:
				if key == primaryKey {
					return fmt.Errorf("duplicate order key %q", key)
				}
				secondaryKey, secondaryDesc = key, desc
			default:
				return errors.New("at most two order keys are supported")
			}
			idx++
		}
	}

	for name, v := range map[string]any{
		"PrimaryKey":    primaryKey,
		"PrimaryDesc":   primaryDesc,
		"SecondaryKey":  secondaryKey,
		"SecondaryDesc": secondaryDesc,
	} {
		if err := setField(dest, name, v); err != nil {
			return err
		}
	}
	return nil
}

func setField(dest reflect.Value, name string, value any) error {
	field := dest.FieldByName(name)
	if !field.IsValid() || !field.CanSet() {
		return fmt.Errorf("params struct %s has no settable field %q", dest.Type(), name)
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("field %q must be %s-compatible, got %s", name, field.Type(), rv.Type())
	}
	field.Set(rv.Convert(field.Type()))
	return nil
}
