package content

import (
	"encoding/json"
	"fmt"

	"studio/docstore"
)

// Fields owned by the store, never taken from caller input.
var protectedFields = []string{
	docstore.FieldID,
	docstore.FieldCreatedAt,
	docstore.FieldUpdatedAt,
}

// encodeDoc converts a typed value to a document, dropping the fields
// the store assigns itself.
func encodeDoc(v any) (docstore.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc docstore.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	stripProtected(doc)
	return doc, nil
}

// decodeDoc fills the typed value from a stored document.
func decodeDoc(doc docstore.Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

func stripProtected(doc docstore.Document) {
	for _, f := range protectedFields {
		delete(doc, f)
	}
}
