package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// BlobStore is durable local key/value storage for serialized blobs.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
