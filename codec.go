package main

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// EncodeParam converts a client-supplied JSON-like value into a native
// Value for binding under the given parameter name. Conversion of
// canonical JSON trees cannot currently fail; the error channel exists so
// that a failure deep inside a nested structure reports its exact path,
// e.g. "failed to convert parameter 'user'.address[2]: ...".
func EncodeParam(name string, value any) (Value, error) {
	v, err := encodeValue(value)
	if err != nil {
		return Value{}, fmt.Errorf("failed to convert parameter '%s%s", name, err)
	}
	return v, nil
}

// encodeValue recursively maps a decoded JSON tree onto the native value
// model. Path context is attached on the error path only, so the happy
// path allocates nothing for diagnostics.
func encodeValue(value any) (Value, error) {
	switch x := value.(type) {
	case nil:
		return None(), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case float64:
		if isIntegral(x) {
			return IntValue(int64(x)), nil
		}
		return FloatValue(x), nil
	case float32:
		f := float64(x)
		if isIntegral(f) {
			return IntValue(int64(f)), nil
		}
		return FloatValue(f), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint64:
		if x > math.MaxInt64 {
			// Out of i64 range; a conformant JSON decoder never
			// produces this.
			return None(), nil
		}
		return IntValue(int64(x)), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), nil
		}
		if f, err := x.Float64(); err == nil {
			return FloatValue(f), nil
		}
		return None(), nil
	case []any:
		items := make([]Value, 0, len(x))
		for i, item := range x {
			v, err := encodeValue(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]%s", i, err)
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			v, err := encodeValue(x[k])
			if err != nil {
				return Value{}, fmt.Errorf(".%s%s", k, err)
			}
			fields = append(fields, Field{Key: k, Value: v})
		}
		return ObjectValue(fields...), nil
	default:
		return Value{}, fmt.Errorf("': unsupported value type %T", value)
	}
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) <= 1<<53
}

// DecodeValue converts a native Value into a generic JSON-serializable
// tree. It is total: decimals become strings carrying every significant
// digit, and kinds with no JSON-native representation (record ids,
// tables, geometries, durations, datetimes) fall back to their canonical
// SurrealQL text. Round-tripping through EncodeParam is therefore only
// guaranteed for the JSON-primitive subset.
func DecodeValue(v Value) any {
	switch v.Kind() {
	case KindNone, KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat:
		return v.Float()
	case KindDecimal:
		return v.Text()
	case KindString:
		return v.Text()
	case KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = DecodeValue(item)
		}
		return out
	case KindObject:
		fields := v.Fields()
		out := make(map[string]any, len(fields))
		for _, f := range fields {
			out[f.Key] = DecodeValue(f.Value)
		}
		return out
	default:
		return v.SQL()
	}
}
