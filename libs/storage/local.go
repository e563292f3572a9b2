package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const fsMetaSuffix = ".meta"

// local is a store that uses the local filesystem. Intended for development
// and tests only: there are no checks that reads stay inside the root path
// beyond a simple prefix check.
type local struct {
	path string
}

// NewLocalStore initializes a new local file storage creating the path if necessary.
func NewLocalStore(path string) (Store, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: failed to make path %q absolute: %s", path, err)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: failed to create path %q: %s", path, err)
	}
	return &local{path: path}, nil
}

func (s *local) pathForID(id string) string {
	return filepath.Join(s.path, strings.TrimPrefix(id, "/"))
}

func (s *local) Put(name string, data []byte, contentType string, meta map[string]string) (string, error) {
	return s.PutReader(name, bytes.NewReader(data), int64(len(data)), contentType, meta)
}

func (s *local) PutReader(name string, r io.ReadSeeker, size int64, contentType string, meta map[string]string) (string, error) {
	fullPath := s.pathForID(name)
	if !strings.HasPrefix(fullPath, s.path) {
		return "", fmt.Errorf("storage: invalid id %q", name)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0700); err != nil {
		return "", err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(fullPath) // cleanup on failure
		return "", err
	}
	if err := f.Sync(); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	mf, err := os.Create(fullPath + fsMetaSuffix)
	if err != nil {
		os.Remove(fullPath)
		return "", err
	}
	defer mf.Close()
	if meta == nil {
		meta = map[string]string{}
	}
	meta["Content-Length"] = strconv.FormatInt(size, 10)
	meta["Content-Type"] = contentType
	if err := json.NewEncoder(mf).Encode(meta); err != nil {
		os.Remove(fullPath)
		os.Remove(fullPath + fsMetaSuffix)
		return "", err
	}
	return name, mf.Sync()
}

func (s *local) Get(id string) ([]byte, http.Header, error) {
	rdc, headers, err := s.GetReader(id)
	if err != nil {
		return nil, nil, err
	}
	defer rdc.Close()
	b, err := io.ReadAll(rdc)
	return b, headers, err
}

func (s *local) GetReader(id string) (io.ReadCloser, http.Header, error) {
	path := s.pathForID(id)
	h, err := localHeader(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, h, nil
}

func localHeader(path string) (http.Header, error) {
	f, err := os.Open(path + fsMetaSuffix)
	if os.IsNotExist(err) {
		return nil, ErrNoObject
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	var meta map[string]string
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, err
	}
	h := http.Header{}
	for k, v := range meta {
		h.Set(k, v)
	}
	return h, nil
}

func (s *local) Delete(id string) error {
	path := s.pathForID(id)
	os.Remove(path + fsMetaSuffix)
	return os.Remove(path)
}

func (s *local) ExpiringURL(id string, expiration time.Duration) (string, error) {
	return "file://" + s.pathForID(id), nil
}
