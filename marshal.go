package confl

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Marshal converts a Go value to a [Value] tree.
//
// It returns an error if the value could not be marshaled (for example if
// it contains a channel or a func). The result is suitable for passing
// to [Encode].
func Marshal(v any) (Value, error) {
	return marshalReflect(reflect.ValueOf(v))
}

func marshalReflect(val reflect.Value) (Value, error) {
	if !val.IsValid() {
		return Null(), nil
	}

	if val.CanInterface() {
		if m, ok := val.Interface().(encoding.TextMarshaler); ok {
			text, err := m.MarshalText()
			if err != nil {
				return Value{}, err
			}
			return String(string(text)), nil
		}
	}

	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return Null(), nil
		}
		return marshalReflect(val.Elem())
	case reflect.Slice, reflect.Array:
		if val.Type().Elem().Kind() == reflect.Uint8 && val.Kind() == reflect.Slice {
			return String(base64.RawStdEncoding.EncodeToString(val.Bytes())), nil
		}
		items := make([]Value, val.Len())
		for i := range items {
			v, err := marshalReflect(val.Index(i))
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Array(items), nil
	case reflect.Map:
		out := Object()
		keys := val.MapKeys()
		strKeys := make([]string, len(keys))
		for i, k := range keys {
			s, err := marshalKeyString(k)
			if err != nil {
				return Value{}, err
			}
			strKeys[i] = s
		}
		order := make([]int, len(keys))
		for i := range order {
			order[i] = i
		}
		slices.SortFunc(order, func(a, b int) int { return strings.Compare(strKeys[a], strKeys[b]) })
		for _, i := range order {
			v, err := marshalReflect(val.MapIndex(keys[i]))
			if err != nil {
				return Value{}, err
			}
			out.obj.set(strKeys[i], v, false)
		}
		return out, nil
	case reflect.Struct:
		out := Object()
		t := val.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name, omitEmpty := fieldName(field)
			if name == "" {
				continue
			}
			fv := val.Field(i)
			if omitEmpty && fv.IsZero() {
				continue
			}
			v, err := marshalReflect(fv)
			if err != nil {
				return Value{}, err
			}
			out.obj.set(name, v, false)
		}
		return out, nil
	case reflect.String:
		return String(val.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(val.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(val.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(val.Float()), nil
	case reflect.Bool:
		return Bool(val.Bool()), nil
	default:
		return Value{}, fmt.Errorf("confl: unsupported type: %s", val.Type())
	}
}

func marshalKeyString(v reflect.Value) (string, error) {
	if v.CanInterface() {
		if m, ok := v.Interface().(encoding.TextMarshaler); ok {
			text, err := m.MarshalText()
			return string(text), err
		}
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool:
		return fmt.Sprint(v.Interface()), nil
	default:
		return "", fmt.Errorf("confl: unsupported map key type: %s", v.Type())
	}
}

// fieldName resolves a struct field's confl key: a `confl:"name"` tag,
// else a `json:"name"` tag, else the snake_case of the field name,
// mirroring the teacher's struct-tag resolution order.
func fieldName(field reflect.StructField) (name string, omitEmpty bool) {
	tag, ok := field.Tag.Lookup("confl")
	if !ok {
		tag, ok = field.Tag.Lookup("json")
	}
	if ok {
		parts := strings.Split(tag, ",")
		if parts[0] == "-" {
			return "", false
		}
		if parts[0] != "" {
			name = parts[0]
		}
		omitEmpty = slices.Contains(parts[1:], "omitempty")
	}
	if name == "" {
		name = toSnakeCase(field.Name)
	}
	return name, omitEmpty
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

// Unmarshal updates v with data from a [Value] tree, as produced by
// [Decode]. v should be a non-nil pointer to a struct, slice, map, array,
// interface, or scalar.
//
// For struct fields, Unmarshal looks for a `confl:"name"` tag, then a
// `json:"name"` tag, then falls back to the snake_case of the field name.
//
// Unmarshalling into an interface produces a map[string]any for objects,
// a []any for arrays, and the Go equivalent of the scalar otherwise
// (string, float64, bool, nil, or time.Time for Date).
func Unmarshal(data Value, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("confl: invalid target, must be a non-nil pointer")
	}
	return unmarshalReflect(data, rv.Elem())
}

func unmarshalReflect(data Value, rv reflect.Value) error {
	if !rv.CanSet() {
		return fmt.Errorf("confl: cannot set value of type %s", rv.Type())
	}

	if rv.CanAddr() {
		if tu, ok := rv.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText([]byte(scalarText(data)))
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if data.IsNull() || data.IsUndefined() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return unmarshalReflect(data, rv.Elem())
	case reflect.Interface:
		rv.Set(reflect.ValueOf(valueToAny(data)))
		return nil
	case reflect.Struct:
		return unmarshalStruct(data, rv)
	case reflect.Map:
		return unmarshalMap(data, rv)
	case reflect.Slice:
		return unmarshalSlice(data, rv)
	case reflect.Array:
		return unmarshalArray(data, rv)
	default:
		return setBasicValue(data, rv)
	}
}

func unmarshalStruct(data Value, rv reflect.Value) error {
	if data.Kind() != KindObject {
		return fmt.Errorf("confl: expected object for %s", rv.Type())
	}
	t := rv.Type()
	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _ := fieldName(field)
		if name == "" {
			continue
		}
		fieldMap[name] = rv.Field(i)
		fieldMap[field.Name] = rv.Field(i)
	}
	for _, key := range data.Keys() {
		field, ok := fieldMap[key]
		if !ok {
			continue
		}
		v, _ := data.Get(key)
		if err := unmarshalReflect(v, field); err != nil {
			return fmt.Errorf("confl: field %q: %w", key, err)
		}
	}
	return nil
}

func unmarshalMap(data Value, rv reflect.Value) error {
	if data.Kind() != KindObject {
		return fmt.Errorf("confl: expected object for %s", rv.Type())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(rv.Type()))
	}
	keyType := rv.Type().Key()
	valueType := rv.Type().Elem()
	for _, key := range data.Keys() {
		kv := reflect.New(keyType).Elem()
		if err := setBasicValue(String(key), kv); err != nil {
			return fmt.Errorf("confl: invalid map key %q: %w", key, err)
		}
		child, _ := data.Get(key)
		vv := reflect.New(valueType).Elem()
		if err := unmarshalReflect(child, vv); err != nil {
			return err
		}
		rv.SetMapIndex(kv, vv)
	}
	return nil
}

func unmarshalSlice(data Value, rv reflect.Value) error {
	elemType := rv.Type().Elem()
	if elemType.Kind() == reflect.Uint8 {
		if data.Kind() != KindString {
			return fmt.Errorf("confl: expected string for byte slice")
		}
		r := strings.NewReplacer(" ", "", "\t", "", "\n", "")
		out, err := base64.RawStdEncoding.DecodeString(r.Replace(data.Str()))
		if err != nil {
			return err
		}
		rv.SetBytes(out)
		return nil
	}
	if data.Kind() != KindArray {
		return fmt.Errorf("confl: expected array for %s", rv.Type())
	}
	out := reflect.MakeSlice(rv.Type(), 0, data.Len())
	for _, item := range data.Items() {
		elem := reflect.New(elemType).Elem()
		if err := unmarshalReflect(item, elem); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	rv.Set(out)
	return nil
}

func unmarshalArray(data Value, rv reflect.Value) error {
	if data.Kind() != KindArray {
		return fmt.Errorf("confl: expected array for %s", rv.Type())
	}
	if data.Len() > rv.Len() {
		return fmt.Errorf("confl: too many elements, limit %d", rv.Len())
	}
	for i, item := range data.Items() {
		if err := unmarshalReflect(item, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func setBasicValue(data Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(scalarText(data))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := toInt64(data)
		if err != nil {
			return err
		}
		if rv.OverflowInt(i) {
			return fmt.Errorf("confl: value overflows %s: %v", rv.Type(), i)
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := toInt64(data)
		if err != nil {
			return err
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return fmt.Errorf("confl: value overflows %s: %v", rv.Type(), i)
		}
		rv.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(data)
		if err != nil {
			return err
		}
		rv.SetFloat(f)
	case reflect.Bool:
		if data.Kind() != KindBool {
			return fmt.Errorf("confl: expected bool, got %s", data.Kind())
		}
		rv.SetBool(data.BoolValue())
	default:
		return fmt.Errorf("confl: unsupported type %s", rv.Type())
	}
	return nil
}

func toInt64(data Value) (int64, error) {
	if data.Kind() == KindNumber {
		return int64(data.Float()), nil
	}
	if data.Kind() == KindString {
		return strconv.ParseInt(data.Str(), 10, 64)
	}
	return 0, fmt.Errorf("confl: expected number, got %s", data.Kind())
}

func toFloat64(data Value) (float64, error) {
	if data.Kind() == KindNumber {
		return data.Float(), nil
	}
	if data.Kind() == KindString {
		return strconv.ParseFloat(data.Str(), 64)
	}
	return 0, fmt.Errorf("confl: expected number, got %s", data.Kind())
}

// scalarText returns the textual form of a scalar Value, for assigning
// to a string field or an encoding.TextUnmarshaler.
func scalarText(data Value) string {
	switch data.Kind() {
	case KindString:
		return data.Str()
	case KindDate:
		return data.Time().UTC().Format("2006-01-02T15:04:05.000Z")
	case KindBool:
		return strconv.FormatBool(data.BoolValue())
	case KindNumber:
		return strconv.FormatFloat(data.Float(), 'g', -1, 64)
	default:
		return ""
	}
}

// valueToAny converts data to its natural Go representation for
// unmarshalling into an interface{} field.
func valueToAny(data Value) any {
	switch data.Kind() {
	case KindNull, KindUndefined:
		return nil
	case KindBool:
		return data.BoolValue()
	case KindNumber:
		return data.Float()
	case KindString:
		return data.Str()
	case KindDate:
		return data.Time()
	case KindArray:
		out := make([]any, data.Len())
		for i, item := range data.Items() {
			out[i] = valueToAny(item)
		}
		return out
	case KindObject:
		out := make(map[string]any, data.Len())
		for _, key := range data.Keys() {
			v, _ := data.Get(key)
			out[key] = valueToAny(v)
		}
		return out
	default:
		return nil
	}
}
