package contentmodels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ValueKind discriminates the shapes a translation value may take.
type ValueKind string

const (
	ValueKindText       ValueKind = "text"
	ValueKindList       ValueKind = "list"
	ValueKindStructured ValueKind = "structured"
)

// ErrUnsupportedValue is returned when decoding a value of another shape.
var ErrUnsupportedValue = errors.New("unsupported translation value")

// TranslationValue is a plain string, a list of strings or a structured
// object. The zero value is empty and encodes as null.
type TranslationValue struct {
	kind   ValueKind
	text   string
	list   []string
	fields map[string]interface{}
}

// TextValue wraps a plain string.
func TextValue(s string) TranslationValue {
	return TranslationValue{kind: ValueKindText, text: s}
}

// ListValue wraps a list of strings.
func ListValue(items ...string) TranslationValue {
	if items == nil {
		items = []string{}
	}
	return TranslationValue{kind: ValueKindList, list: items}
}

// StructuredValue wraps an object.
func StructuredValue(fields map[string]interface{}) TranslationValue {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return TranslationValue{kind: ValueKindStructured, fields: fields}
}

func (v TranslationValue) Kind() ValueKind { return v.kind }

// IsZero reports whether v holds nothing.
func (v TranslationValue) IsZero() bool { return v.kind == "" }

func (v TranslationValue) Text() (string, bool) {
	return v.text, v.kind == ValueKindText
}

func (v TranslationValue) List() ([]string, bool) {
	return v.list, v.kind == ValueKindList
}

func (v TranslationValue) Fields() (map[string]interface{}, bool) {
	return v.fields, v.kind == ValueKindStructured
}

// Interface returns the underlying Go value, or nil when empty.
func (v TranslationValue) Interface() interface{} {
	switch v.kind {
	case ValueKindText:
		return v.text
	case ValueKindList:
		return v.list
	case ValueKindStructured:
		return v.fields
	}
	return nil
}

func (v TranslationValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *TranslationValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = TranslationValue{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("%w: list items must be strings", ErrUnsupportedValue)
		}
		*v = ListValue(items...)
	case '{':
		var fields map[string]interface{}
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		*v = StructuredValue(fields)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedValue, string(trimmed))
	}
	return nil
}

func (v TranslationValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch v.kind {
	case ValueKindText:
		return bson.MarshalValue(v.text)
	case ValueKindList:
		list := v.list
		if list == nil {
			list = []string{}
		}
		return bson.MarshalValue(list)
	case ValueKindStructured:
		fields := v.fields
		if fields == nil {
			fields = map[string]interface{}{}
		}
		return bson.MarshalValue(fields)
	}
	return bsontype.Null, nil, nil
}

func (v *TranslationValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*v = TranslationValue{}
	case bsontype.String:
		*v = TextValue(raw.StringValue())
	case bsontype.Array:
		var items []string
		if err := raw.Unmarshal(&items); err != nil {
			return fmt.Errorf("%w: list items must be strings", ErrUnsupportedValue)
		}
		*v = ListValue(items...)
	case bsontype.EmbeddedDocument:
		var fields map[string]interface{}
		if err := raw.Unmarshal(&fields); err != nil {
			return err
		}
		*v = StructuredValue(fields)
	default:
		return fmt.Errorf("%w: bson type %s", ErrUnsupportedValue, t)
	}
	return nil
}
