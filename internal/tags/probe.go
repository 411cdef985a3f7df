package tags

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
)

// probeCodec reads tagged containers through the generic tag prober. It is
// the shared read path for FLAC and the read-only MP4/M4A and Ogg codecs.
type probeCodec struct{}

func (probeCodec) Read(path string) (ExistingTags, error) {
	file, err := os.Open(path)
	if err != nil {
		return ExistingTags{}, services.Wrap(services.ErrTransport, "tags", "read", path, err)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return ExistingTags{}, nil
		}
		// Unreadable tag blocks read as empty rather than failing the file;
		// only write attempts surface format errors for these containers.
		return ExistingTags{}, nil
	}

	year := ""
	if y := meta.Year(); y > 0 {
		year = strconv.Itoa(y)
	}
	existing := ExistingTags{
		TrackRecord: metadata.TrackRecord{
			Track:       strings.TrimSpace(meta.Title()),
			Artist:      strings.TrimSpace(meta.Artist()),
			AlbumName:   strings.TrimSpace(meta.Album()),
			AlbumArtist: strings.TrimSpace(meta.AlbumArtist()),
			Genre:       strings.TrimSpace(meta.Genre()),
			Date:        year,
		},
	}
	existing.Processed = probeHasMarker(meta)
	return existing, nil
}

func (probeCodec) Write(path string, _ metadata.TrackRecord) error {
	return services.Wrap(services.ErrFormat, "tags", "write",
		fmt.Sprintf("%s: format is read-only", path), nil)
}

func probeHasMarker(meta tag.Metadata) bool {
	if strings.Contains(meta.Comment(), ProcessedMarker) {
		return true
	}
	// Some containers expose comments only through raw frames.
	for _, value := range meta.Raw() {
		if text, ok := value.(string); ok && strings.Contains(text, ProcessedMarker) {
			return true
		}
	}
	return false
}
