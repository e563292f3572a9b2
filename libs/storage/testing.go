package storage

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type readCloser struct {
	io.Reader
}

func (readCloser) Close() error {
	return nil
}

type TestObject struct {
	Data    []byte
	Headers http.Header
}

// TestStore is an in-memory DeterministicStore for tests. A non-nil PutErr
// makes every write fail with that error to simulate transfer failures.
type TestStore struct {
	PutErr error

	mu      sync.Mutex
	objects map[string]*TestObject
}

func NewTestStore(objects map[string]*TestObject) *TestStore {
	if objects == nil {
		objects = make(map[string]*TestObject)
	}
	return &TestStore{objects: objects}
}

func (s *TestStore) IDFromName(name string) string {
	return "test://" + name
}

func (s *TestStore) Put(name string, data []byte, contentType string, meta map[string]string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	headers := http.Header{}
	headers.Set("Content-Length", strconv.Itoa(len(data)))
	headers.Set("Content-Type", contentType)
	for k, v := range meta {
		headers.Set(k, v)
	}
	s.mu.Lock()
	s.objects[s.IDFromName(name)] = &TestObject{Data: data, Headers: headers}
	s.mu.Unlock()
	return s.IDFromName(name), nil
}

func (s *TestStore) PutReader(name string, r io.ReadSeeker, size int64, contentType string, meta map[string]string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return s.Put(name, data, contentType, meta)
}

func (s *TestStore) Get(id string) ([]byte, http.Header, error) {
	s.mu.Lock()
	o := s.objects[id]
	s.mu.Unlock()
	if o == nil {
		return nil, nil, ErrNoObject
	}
	return o.Data, o.Headers, nil
}

func (s *TestStore) GetReader(id string) (io.ReadCloser, http.Header, error) {
	data, headers, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return readCloser{bytes.NewReader(data)}, headers, nil
}

func (s *TestStore) Delete(id string) error {
	s.mu.Lock()
	delete(s.objects, id)
	s.mu.Unlock()
	return nil
}

func (s *TestStore) ExpiringURL(id string, expiration time.Duration) (string, error) {
	return id, nil
}
