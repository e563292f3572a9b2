// Package storage abstracts blob storage for patient-provided intake files.
package storage

import (
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrNoObject is returned when the requested object does not exist in the store.
var ErrNoObject = errors.New("storage: no object")

// Store is a blob store for intake uploads (photos, lab reports, ID documents).
type Store interface {
	Put(name string, data []byte, contentType string, meta map[string]string) (string, error)
	PutReader(name string, r io.ReadSeeker, size int64, contentType string, meta map[string]string) (string, error)
	Get(id string) ([]byte, http.Header, error)
	GetReader(id string) (io.ReadCloser, http.Header, error)
	ExpiringURL(id string, expiration time.Duration) (string, error)
	Delete(id string) error
}

// DeterministicStore is a version of Store that uses a deterministric
// value for ID so that it can be generated from the name given to Put(Reader).
type DeterministicStore interface {
	Store
	IDFromName(name string) string
}
