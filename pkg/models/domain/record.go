package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is a single key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a JSON object that keeps its keys in the order they were received.
// Values are decoded JSON: nil, bool, float64, string, []any or a nested Record.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

func NewRecord(fields ...Field) Record {
	r := Record{fields: orderedmap.New[string, any]()}
	for _, f := range fields {
		r.fields.Set(f.Key, f.Value)
	}
	return r
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key string, value any) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
	r.fields.Set(key, value)
}

func (r Record) Get(key string) (any, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

func (r Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

func (r Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	for _, f := range r.Fields() {
		keys = append(keys, f.Key)
	}
	return keys
}

func (r Record) Fields() []Field {
	if r.fields == nil {
		return nil
	}
	out := make([]Field, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Field{Key: pair.Key, Value: pair.Value})
	}
	return out
}

func (r Record) Clone() Record {
	return NewRecord(r.Fields()...)
}

// Text returns the value under key as plain text. Missing and null values are empty.
func (r Record) Text(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	return Stringify(v)
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

func (r *Record) UnmarshalJSON(data []byte) error {
	r.fields = orderedmap.New[string, any]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}
	return r.decodeFields(dec)
}

// decodeFields reads key/value pairs up to and including the closing brace.
func (r *Record) decodeFields(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("failed to decode %q: %w", key, err)
		}
		r.fields.Set(key, value)
	}
	_, err := dec.Token()
	return err
}

// decodeValue keeps nested objects ordered by decoding them into Records.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('{'):
		nested := Record{fields: orderedmap.New[string, any]()}
		if err := nested.decodeFields(dec); err != nil {
			return nil, err
		}
		return nested, nil
	case json.Delim('['):
		items := []any{}
		for dec.More() {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return tok, nil
	}
}

// Stringify renders a decoded JSON value the way it is shown in plain cells.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
