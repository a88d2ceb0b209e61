package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// DefaultStateHash fingerprints a state by its JSON encoding. Struct fields
// encode in declaration order and map keys sorted, so equal values give equal
// keys. JSON drops unexported fields, so structs that carry any, and states
// that cannot be marshalled, use their Go-syntax representation instead.
func DefaultStateHash[S any](state S) string {
	if hasUnexported(reflect.TypeOf(state)) {
		return fmt.Sprintf("%#v", state)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Sprintf("%#v", state)
	}
	return string(data)
}

// hasUnexported reports whether t is a struct, or an array of structs, with an
// unexported field at any level of direct nesting.
func hasUnexported(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Array:
		return hasUnexported(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || hasUnexported(f.Type) {
				return true
			}
		}
	}
	return false
}
