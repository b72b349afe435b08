package b3

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashReader(t *testing.T) {
	// Published blake3 digest of the empty input.
	const empty = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"

	got, err := HashReader(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if got != empty {
		t.Errorf("HashReader(\"\") = %s, want %s", got, empty)
	}

	a, _ := HashReader(strings.NewReader("video-a"))
	b, _ := HashReader(strings.NewReader("video-b"))
	if a == b {
		t.Error("different inputs produced the same digest")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64", len(a))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestHashReaderError(t *testing.T) {
	if _, err := HashReader(failingReader{}); err == nil {
		t.Error("expected error")
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.mp4")
	if err := os.WriteFile(path, []byte("video-a"), 0644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fromReader, _ := HashReader(strings.NewReader("video-a"))
	if fromFile != fromReader {
		t.Errorf("HashFile = %s, HashReader = %s", fromFile, fromReader)
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
