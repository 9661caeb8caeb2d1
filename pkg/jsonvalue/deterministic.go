package jsonvalue

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// FromInterface converts plain Go data (the output of a json5, yaml or toml
// decoder) into a Value. Go maps carry no order, so object keys are sorted to
// keep the result deterministic.
func FromInterface(data interface{}) *Value {
	switch t := data.(type) {
	case nil:
		return Null()
	case *Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return Number(t.String())
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case uint64:
		return Number(fmt.Sprintf("%d", t))
	case time.Time:
		return String(t.Format(time.RFC3339Nano))
	}

	v := reflect.ValueOf(data)

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			// Non-string keys only come out of YAML; render them as text.
			return String(fmt.Sprint(data))
		}
		keys := make([]string, 0, v.Len())
		for _, key := range v.MapKeys() {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)

		obj := NewObject()
		for _, key := range keys {
			obj.Set(key, FromInterface(v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())).Interface()))
		}
		return ObjectValue(obj)

	case reflect.Slice, reflect.Array:
		items := make([]*Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = FromInterface(v.Index(i).Interface())
		}
		return Array(items...)

	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return Null()
		}
		return FromInterface(v.Elem().Interface())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(fmt.Sprintf("%d", v.Uint()))

	default:
		return String(fmt.Sprint(data))
	}
}
