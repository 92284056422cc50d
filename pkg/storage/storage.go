// Package storage abstracts the object store holding avatars, application
// documents and event QR passes. The disk implementation is the default;
// a cloud bucket can substitute behind the same interface.
package storage

import (
	"context"
	"io"
	"time"
)

type Storage interface {
	// Upload writes the object at key. With upsert false an existing object
	// is an error.
	Upload(ctx context.Context, key string, content io.Reader, contentType string, upsert bool) error

	// Open reads the object back.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys under the given folder prefix.
	List(ctx context.Context, folder string) ([]string, error)

	// Remove deletes the given objects. Missing keys are not an error.
	Remove(ctx context.Context, keys []string) error

	// SignedURL returns a time-limited URL for a private read.
	SignedURL(key string, expiresIn time.Duration) (string, error)

	// PublicURL returns the permanent URL of a public object.
	PublicURL(key string) string
}
