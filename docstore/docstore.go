package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNotFound is returned by Get and Update when no document with the
// given id exists in the collection.
var ErrNotFound = errors.New("document not found")

// Timestamp field names stamped by the store on every write.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// FieldID is merged into documents returned by Get and List.
const FieldID = "id"

// StampLayout is the wire format for server-assigned timestamps. Fixed
// fractional width keeps lexicographic order equal to chronological order.
const StampLayout = "2006-01-02T15:04:05.000000000Z"

// Stamp formats t as a store timestamp.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// Document is a schema-less key/value record.
type Document map[string]any

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Order selects the field a List is sorted by.
type Order struct {
	Field string
	Desc  bool
}

// Store describes the minimal document database functionality the
// application needs. Implementations stamp createdAt on creation and
// updatedAt on every write, and merge the document id into results.
type Store interface {
	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// List returns every document in the collection sorted by order.
	List(ctx context.Context, collection string, order Order) ([]Document, error)
	// Create inserts doc under a newly assigned id and returns it.
	Create(ctx context.Context, collection string, doc Document) (string, error)
	// Set writes doc under the given id, creating it if absent.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update merges partial into the existing document, or returns
	// ErrNotFound when it does not exist.
	Update(ctx context.Context, collection, id string, partial Document) error
	// Delete removes the document. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Close releases the underlying connection, if any.
	Close() error
}

// SortDocuments orders docs in place by the given field. Values are
// compared as strings (store timestamps sort correctly this way); ties
// fall back to id so the order is deterministic.
func SortDocuments(docs []Document, order Order) {
	sort.SliceStable(docs, func(i, j int) bool {
		a := fieldString(docs[i], order.Field)
		b := fieldString(docs[j], order.Field)
		if a == b {
			return fieldString(docs[i], FieldID) < fieldString(docs[j], FieldID)
		}
		if order.Desc {
			return a > b
		}
		return a < b
	})
}

func fieldString(doc Document, field string) string {
	v, ok := doc[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if t, ok := v.(time.Time); ok {
		return Stamp(t)
	}
	return fmt.Sprint(v)
}
