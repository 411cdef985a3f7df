package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mp3Header is a minimal MPEG frame sync followed by zero padding. It is
// enough for the id3v2 writer to treat the file as taggable audio.
var mp3Header = append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 64)...)

// WriteAudioFile creates a stub MP3 at path, creating parent directories.
func WriteAudioFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, mp3Header, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// flacHeader is the stream magic plus an empty STREAMINFO marked as the
// last metadata block, followed by a frame sync code so parsers accept the
// audio stream.
var flacHeader = append(append([]byte{'f', 'L', 'a', 'C', 0x80, 0x00, 0x00, 0x22}, make([]byte, 34)...), 0xFF, 0xF8)

// WriteFLACFile creates a stub FLAC at path, creating parent directories.
func WriteFLACFile(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, flacHeader, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFile fills the target path with the given content, creating parent
// directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
