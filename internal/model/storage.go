package model

import (
	"context"
	"io"
)

// MaxAvatarSize bounds an uploaded avatar image.
const MaxAvatarSize = 2 << 20

// Storage keeps binary objects such as avatar images.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// Stat describes the object at key, or returns ErrNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}
