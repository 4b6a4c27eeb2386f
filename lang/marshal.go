package lang

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lsexpr/lang/token"
)

// ToNative converts a Value to its native Go representation: int64 or
// float64 for numbers, bool, nil, string, []any, and an insertion-ordered
// object that marshals to both JSON and YAML.
//
// Number text that is not numeric is returned as a string. Pointers should
// be resolved first; an unresolved pointer converts to its name.
func (v *Value) ToNative() any {
	switch v.Type {
	case TypeNumber:
		op := classify(token.Lit(v.Text))

		switch op.class {
		case classInt:
			return op.i
		case classFloat:
			return op.f
		}

		return v.Text

	case TypeBoolean:
		return v.Text == textTrue

	case TypeNull:
		return nil

	case TypeString, TypePointer:
		return v.Text

	case TypeArray:
		elems := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = e.ToNative()
		}

		return elems

	case TypeObject:
		obj := make(orderedObject, len(v.Entries))
		for i, e := range v.Entries {
			obj[i] = yaml.MapItem{Key: e.Key.Text, Value: e.Value.ToNative()}
		}

		return obj

	case TypeFunction:
		params := make([]any, len(v.Params))
		for i, p := range v.Params {
			params[i] = p
		}

		return orderedObject{
			{Key: "params", Value: params},
			{Key: "body", Value: token.Join(v.Body)},
		}
	}

	return nil
}

// orderedObject preserves entry order when marshaled.
type orderedObject yaml.MapSlice

// MarshalYAML implements yaml.InterfaceMarshaler.
func (o orderedObject) MarshalYAML() (any, error) {
	return yaml.MapSlice(o), nil
}

// MarshalJSON implements json.Marshaler.
func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
