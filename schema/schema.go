package schema

import "encoding/json"

// Schema is message content schema interface
type Schema interface {
	// String returns a human readable representation of the content
	String() string
}

// Stringify serializes a schema for inclusion in a model request.
// Plain strings pass through untouched, structured schemas are JSON encoded.
func Stringify(s Schema) string {
	if v, ok := s.(String); ok {
		return string(v)
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ToBytes serializes a schema to bytes, following the same rules as Stringify.
func ToBytes(s Schema) []byte {
	if v, ok := s.(String); ok {
		return []byte(v)
	}
	bs, _ := json.Marshal(s)
	return bs
}
