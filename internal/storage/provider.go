package storage

import (
	"io"
	"time"
)

// Provider defines the behavior of an input backend. The profiler only ever
// reads recordings; it never writes back to the source.
type Provider interface {
	List(bucket, prefix string) ([]string, error)
	Get(bucket, key string) (*FileObject, error)
}

// FileObject is the provider-agnostic representation of a recording.
type FileObject struct {
	Body          io.ReadCloser
	ContentLength int64
	LastModified  time.Time
}
