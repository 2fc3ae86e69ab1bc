package hf2spm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document is a parsed tokenizer artifact held as generic JSON. Field
// access tells a missing field apart from one of the wrong type, and
// numbers stay textual until a caller asks for an integer, so ids are
// never rounded through a float.
type Document struct {
	name string
	root map[string]interface{}
}

// ParseDocument
// Decodes a JSON document whose top level is an object. The name labels
// every error raised from the document later on.
func ParseDocument(name string, data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var root interface{}
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, name, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: %s: trailing data after the document",
			ErrParse, name)
	}
	object, ok := root.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level is %s, want object",
			ErrSchema, name, jsonTypeName(root))
	}
	return &Document{name: name, root: object}, nil
}

// field
// Fetches a key of the wanted type from an object inside doc. The path
// names the object for error messages, "" for the document root.
func field[T any](doc *Document, object map[string]interface{}, path string,
	key string) (T, error) {
	var zero T
	raw, ok := object[key]
	if !ok {
		return zero, fmt.Errorf("%w: %s: %s",
			ErrFieldAbsent, doc.name, joinPath(path, key))
	}
	value, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s: %s is %s, want %s",
			ErrFieldType, doc.name, joinPath(path, key),
			jsonTypeName(raw), jsonTypeName(zero))
	}
	return value, nil
}

// optionalArray
// Returns a top level array field, or nil with no error when the field
// is absent.
func optionalArray(doc *Document, key string) ([]interface{}, error) {
	raw, ok := doc.root[key]
	if !ok {
		return nil, nil
	}
	array, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s is %s, want array",
			ErrFieldType, doc.name, key, jsonTypeName(raw))
	}
	return array, nil
}

// asInt
// Converts a JSON value to an exact integer. Fractional numbers count
// as the wrong type, not as a rounding opportunity.
func asInt(doc *Document, path string, raw interface{}) (int64, error) {
	number, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s: %s is %s, want integer",
			ErrFieldType, doc.name, path, jsonTypeName(raw))
	}
	value, err := number.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s is %s, want integer",
			ErrFieldType, doc.name, path, number)
	}
	return value, nil
}

func joinPath(path string, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func jsonTypeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}
