package storage

import (
	"bytes"
	"testing"
)

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := store.Get("missing"); err != ErrNoObject {
		t.Fatalf("Expected ErrNoObject got %T %+v", err, err)
	}

	data := []byte("lab-report")
	id, err := store.Put("reports/lab-1.pdf", data, "application/pdf", map[string]string{"X-Visit": "v1"})
	if err != nil {
		t.Fatal(err)
	}

	out, headers, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("get %q but expected %q", out, data)
	}
	if ct := headers.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if v := headers.Get("X-Visit"); v != "v1" {
		t.Fatalf("unexpected meta %q", v)
	}

	if err := store.Delete(id); err != nil {
		t.Fatal(err)
	}
	if _, _, err := store.Get(id); err != ErrNoObject {
		t.Fatalf("Expected ErrNoObject after delete, got %+v", err)
	}
}
