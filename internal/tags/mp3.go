package tags

import (
	"strings"

	"github.com/bogem/id3v2"

	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
)

const (
	albumArtistFrame = "TPE2"
	recordingTime    = "TDRC"
	commentDesc      = "tracktidy"
)

// mp3Codec reads and writes ID3v2 frames. Files without an existing tag
// block get one on first write.
type mp3Codec struct{}

func (mp3Codec) Read(path string) (ExistingTags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ExistingTags{}, services.Wrap(services.ErrFormat, "tags", "read", path, err)
	}
	defer tag.Close()

	existing := ExistingTags{
		TrackRecord: metadata.TrackRecord{
			Track:       strings.TrimSpace(tag.Title()),
			Artist:      strings.TrimSpace(tag.Artist()),
			AlbumName:   strings.TrimSpace(tag.Album()),
			AlbumArtist: strings.TrimSpace(tag.GetTextFrame(albumArtistFrame).Text),
			Genre:       strings.TrimSpace(tag.Genre()),
			Date:        readDate(tag),
		},
	}
	existing.Processed = hasMarker(tag)
	return existing, nil
}

func (mp3Codec) Write(path string, rec metadata.TrackRecord) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return services.Wrap(services.ErrFormat, "tags", "write", path, err)
	}
	defer tag.Close()

	tag.SetTitle(rec.Track)
	tag.SetArtist(rec.Artist)
	tag.SetAlbum(rec.AlbumName)
	tag.SetGenre(rec.Genre)
	if rec.AlbumArtist != "" {
		tag.AddTextFrame(albumArtistFrame, tag.DefaultEncoding(), rec.AlbumArtist)
	}
	if rec.Date != "" {
		tag.AddTextFrame(recordingTime, tag.DefaultEncoding(), rec.Date)
		if year := yearOf(rec.Date); year != "" {
			tag.SetYear(year)
		}
	}

	// Existing comment frames stay; the marker is appended only when absent.
	if !hasMarker(tag) {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: commentDesc,
			Text:        ProcessedMarker,
		})
	}

	if err := tag.Save(); err != nil {
		return services.Wrap(services.ErrFormat, "tags", "write", path, err)
	}
	return nil
}

func readDate(tag *id3v2.Tag) string {
	if full := strings.TrimSpace(tag.GetTextFrame(recordingTime).Text); full != "" {
		return full
	}
	return strings.TrimSpace(tag.Year())
}

func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}

func hasMarker(tag *id3v2.Tag) bool {
	for _, framer := range tag.GetFrames(tag.CommonID("Comments")) {
		comment, ok := framer.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		if strings.Contains(comment.Text, ProcessedMarker) {
			return true
		}
	}
	return false
}
