package content

import (
	"context"
	"fmt"
	"io"
)

// UploadFile stores the file at path through the object store and
// returns its public URL. Callers are responsible for picking a
// collision-resistant path; the API layer prefixes uploads with a
// millisecond timestamp.
func (s *Service) UploadFile(ctx context.Context, body io.Reader, path, contentType string) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("object store not configured")
	}
	if path == "" {
		return "", fmt.Errorf("upload path is required")
	}
	return s.blobs.Upload(ctx, path, body, contentType)
}

// DeleteFile removes the object at path from the object store.
func (s *Service) DeleteFile(ctx context.Context, path string) error {
	if s.blobs == nil {
		return fmt.Errorf("object store not configured")
	}
	return s.blobs.Delete(ctx, path)
}
