package station

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const DefaultPattern = "*.txt"

// File identifies one station file within a Source.
type File struct {
	Name    string // name relative to the source location
	Path    string // full path or URI, for messages
	Version string // changes whenever the content may have changed
}

// Source lists and opens the station files of one location.
type Source interface {
	Location() string
	List(ctx context.Context) ([]File, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Factory resolves a location string to a Source and opens output locations.
type Factory interface {
	NewSource(ctx context.Context, location string) (Source, error)
	Create(ctx context.Context, location string) (io.WriteCloser, error)
}

// DefaultFactory handles local directories and s3://bucket/prefix locations.
// The S3 client is created on first use unless one is supplied.
type DefaultFactory struct {
	Pattern  string
	S3Client S3Client

	mu sync.Mutex
}

func (f *DefaultFactory) NewSource(ctx context.Context, location string) (Source, error) {
	if bucket, prefix, ok := ParseS3URI(location); ok {
		client, err := f.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, bucket, prefix, f.pattern())
	}
	return NewDirSource(location, f.pattern())
}

// Create opens location for writing. S3 objects are uploaded when the writer is closed.
func (f *DefaultFactory) Create(ctx context.Context, location string) (io.WriteCloser, error) {
	if bucket, key, ok := ParseS3URI(location); ok {
		if key == "" || strings.HasSuffix(key, "/") {
			return nil, fmt.Errorf("s3 output %q needs an object key", location)
		}
		client, err := f.s3Client(ctx)
		if err != nil {
			return nil, err
		}
		return newObjectWriter(ctx, client, bucket, key), nil
	}

	if dir := filepath.Dir(location); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	file, err := os.Create(location)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return file, nil
}

func (f *DefaultFactory) pattern() string {
	if f.Pattern == "" {
		return DefaultPattern
	}
	return f.Pattern
}

func (f *DefaultFactory) s3Client(ctx context.Context) (S3Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.S3Client == nil {
		client, err := NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		f.S3Client = client
	}
	return f.S3Client, nil
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, key, true
}
