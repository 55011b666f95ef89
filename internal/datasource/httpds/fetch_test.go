package httpds

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/xxh3"
)

func TestDownloadFile(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("PAR1 yellow trips "), 256)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "raw", "yellow_tripdata_2024-01.parquet")
	c := NewClient(Config{})

	res, err := c.DownloadFile(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if !res.Downloaded {
		t.Error("expected Downloaded=true on first fetch")
	}
	if res.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", res.Size, len(payload))
	}
	if want := xxh3.Hash(payload); res.Digest != want {
		t.Errorf("Digest = %#x, want %#x", res.Digest, want)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("downloaded content does not match served payload")
	}
	if _, err := os.Stat(dest + ".partial"); !os.IsNotExist(err) {
		t.Error("partial file left behind after successful download")
	}
}

func TestDownloadFile_SkipsExisting(t *testing.T) {
	t.Parallel()

	payload := []byte("already on disk")
	dest := filepath.Join(t.TempDir(), "cached.parquet")
	if err := os.WriteFile(dest, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	// The server fails the test if it is ever contacted.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request for an already-present file")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{})
	res, err := c.DownloadFile(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if res.Downloaded {
		t.Error("expected Downloaded=false for an existing file")
	}
	if res.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", res.Size, len(payload))
	}
	if want := xxh3.Hash(payload); res.Digest != want {
		t.Errorf("Digest = %#x, want %#x", res.Digest, want)
	}
}

func TestDownloadFile_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.parquet")
	c := NewClient(Config{})

	if _, err := c.DownloadFile(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("destination file should not exist after a failed download")
	}
}
