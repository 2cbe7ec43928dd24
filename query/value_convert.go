package query

import (
	"fmt"
	"sort"
	"time"
)

// FromNative converts decoded Go data (as produced by JSON or parquet
// decoders) into a Value. Maps become records with fields in key order.
func FromNative(v interface{}) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, typeErrorf("null values are not supported")
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(val), nil
	case time.Time:
		return String(val.Format(time.RFC3339Nano)), nil
	case []interface{}:
		items := make([]Value, len(val))
		for i, item := range val {
			converted, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = converted
		}
		return NewList(items)
	case map[string]interface{}:
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)

		rec := &Record{}
		for _, name := range names {
			converted, err := FromNative(val[name])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			rec.Set(name, converted)
		}
		return rec, nil
	}

	if f, ok := toFloat64(v); ok {
		return Number(f), nil
	}
	return nil, typeErrorf("unsupported value of type %T", v)
}

// toFloat64 converts a value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToNative converts a Value into plain Go data for encoders. Numbers with
// no fractional part become int64 so they encode without an exponent.
func ToNative(v Value) interface{} {
	switch val := v.(type) {
	case Number:
		f := float64(val)
		if f == float64(int64(f)) && f >= -1<<53 && f <= 1<<53 {
			return int64(f)
		}
		return f
	case String:
		return string(val)
	case Bool:
		return bool(val)
	case *List:
		items := make([]interface{}, val.Len())
		for i, item := range val.Items() {
			items[i] = ToNative(item)
		}
		return items
	case *Record:
		fields := make(map[string]interface{}, val.Len())
		for _, name := range val.Names() {
			field, _ := val.Get(name)
			fields[name] = ToNative(field)
		}
		return fields
	}
	return nil
}
