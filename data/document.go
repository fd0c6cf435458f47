package data

import (
	"fmt"
	"maps"
	"strings"

	"github.com/goccy/go-json"
)

// DocumentIDField is the field holding a document's identifier.
const DocumentIDField = "_id"

// Document is a schemaless record as stored inside a collection.
type Document map[string]any

// ID returns the document identifier, or the null id if missing or not a string.
func (d Document) ID() ID {
	if d == nil {
		return ""
	}

	switch v := d[DocumentIDField].(type) {
	case string:
		return ID(v)
	case ID:
		return v
	default:
		return ""
	}
}

// SetID sets the document identifier.
func (d Document) SetID(id ID) {
	d[DocumentIDField] = string(id)
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Decode converts d into v by way of its JSON form.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return nil
}

// EncodeDocument serializes d into its stored form.
func EncodeDocument(d Document) ([]byte, error) {
	return json.Marshal(d)
}

// DecodeDocument parses the stored form of a document.
func DecodeDocument(raw []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: document literal is null", ErrDeserialization)
	}
	return d, nil
}

// ParseDocument parses a JSON object literal, as typed into the shell.
func ParseDocument(literal string) (Document, error) {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return nil, fmt.Errorf("%w: missing document literal", ErrDeserialization)
	}
	return DecodeDocument([]byte(literal))
}

// ToDocument converts any JSON-serializable value into a Document.
func ToDocument(v any) (Document, error) {
	if d, ok := v.(Document); ok {
		return d, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(raw)
}
