package tags

import (
	"path/filepath"
	"strings"

	"tracktidy/internal/metadata"
)

// ProcessedMarker is embedded in a comment-style tag field once a file has
// been handled. It is independent of store membership and lets skip detection
// work even when a key has been removed from the store.
const ProcessedMarker = "Processed by tracktidy"

// Codec exposes per-format tag access for one audio file.
type Codec interface {
	// Read returns the file's existing descriptive fields. Missing tags are
	// not an error; the record simply has empty fields.
	Read(path string) (ExistingTags, error)
	// Write embeds the record's fields plus the processed marker. Read-only
	// formats fail with the format error class.
	Write(path string, rec metadata.TrackRecord) error
}

// ExistingTags is what a read produces: the descriptive fields (the record's
// Key is left empty) plus whether the processed marker was found.
type ExistingTags struct {
	metadata.TrackRecord
	Processed bool
}

// ForPath returns the codec handling the file's extension, if any.
func ForPath(path string) (Codec, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3Codec{}, true
	case ".flac":
		return flacCodec{}, true
	case ".m4a", ".mp4", ".ogg", ".opus":
		return probeCodec{}, true
	default:
		return nil, false
	}
}
