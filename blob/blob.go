package blob

import (
	"context"
	"io"
)

// Store is the object storage collaborator: content images and other
// uploads go in, a retrievable URL comes out.
type Store interface {
	// Upload writes the object at path and returns its public URL.
	Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error)
	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error
}
