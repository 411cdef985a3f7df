package transport

import (
	"context"
	"iter"
	"path/filepath"
	"strings"
)

// Recognized audio extensions; listings never surface anything else. Only
// formats with a writable tag codec are discovered, so every listed file can
// reach the published state.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
}

// Transport provides uniform file access over a local or remote collection.
type Transport interface {
	// List lazily yields the relative paths of recognized audio files under
	// root, recursively. A yielded error means enumeration itself failed,
	// which callers treat as fatal for the run.
	List(ctx context.Context, root string) iter.Seq2[string, error]
	// Load materializes a local working copy of the file. The copy must be
	// closed on every exit path once the pipeline is done with the file.
	Load(ctx context.Context, root, rel string) (WorkingCopy, error)
	// Save publishes local modifications back to the collection.
	Save(ctx context.Context, root, rel string, copy WorkingCopy) error
}

// WorkingCopy is the local materialization of one collection file.
type WorkingCopy struct {
	// Path is the local filesystem location of the file's content.
	Path string

	cleanup func() error
}

// Close releases any temporary artifact behind the working copy. It is safe
// to call for in-place local copies.
func (w WorkingCopy) Close() error {
	if w.cleanup == nil {
		return nil
	}
	return w.cleanup()
}

// IsAudioPath reports whether the path carries a recognized audio extension.
func IsAudioPath(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
