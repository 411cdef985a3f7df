package tags

import (
	"strings"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
)

// flacCodec writes vorbis comments through go-flac. Reads go through the
// generic prober shared with the other containers.
type flacCodec struct {
	probeCodec
}

// vorbisFields are the comment keys this codec owns. Unmanaged keys in an
// existing block are carried over untouched on write.
var vorbisFields = map[string]struct{}{
	"TITLE":       {},
	"ARTIST":      {},
	"ALBUM":       {},
	"ALBUMARTIST": {},
	"GENRE":       {},
	"DATE":        {},
	"COMMENT":     {},
}

func (flacCodec) Write(path string, rec metadata.TrackRecord) error {
	file, err := flac.ParseFile(path)
	if err != nil {
		return services.Wrap(services.ErrFormat, "tags", "write", path, err)
	}

	existing, blockIndex, err := findVorbisComment(file)
	if err != nil {
		return services.Wrap(services.ErrFormat, "tags", "write", path, err)
	}

	comment := flacvorbis.New()
	carryUnmanagedComments(comment, existing)

	fields := []struct {
		key   string
		value string
	}{
		{flacvorbis.FIELD_TITLE, rec.Track},
		{flacvorbis.FIELD_ARTIST, rec.Artist},
		{flacvorbis.FIELD_ALBUM, rec.AlbumName},
		{"ALBUMARTIST", rec.AlbumArtist},
		{flacvorbis.FIELD_GENRE, rec.Genre},
		{flacvorbis.FIELD_DATE, rec.Date},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if err := comment.Add(field.key, field.value); err != nil {
			return services.Wrap(services.ErrFormat, "tags", "write", path, err)
		}
	}
	if err := comment.Add("COMMENT", mergedComment(existing)); err != nil {
		return services.Wrap(services.ErrFormat, "tags", "write", path, err)
	}

	block := comment.Marshal()
	if blockIndex >= 0 {
		file.Meta[blockIndex] = &block
	} else {
		file.Meta = append(file.Meta, &block)
	}

	if err := file.Save(path); err != nil {
		return services.Wrap(services.ErrFormat, "tags", "write", path, err)
	}
	return nil
}

func findVorbisComment(file *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for i, meta := range file.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		parsed, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, -1, err
		}
		return parsed, i, nil
	}
	return nil, -1, nil
}

func carryUnmanagedComments(dst, src *flacvorbis.MetaDataBlockVorbisComment) {
	if src == nil {
		return
	}
	for _, raw := range src.Comments {
		key, _, ok := strings.Cut(raw, "=")
		if !ok {
			continue
		}
		if _, managed := vorbisFields[strings.ToUpper(key)]; managed {
			continue
		}
		dst.Comments = append(dst.Comments, raw)
	}
}

// mergedComment keeps whatever comment the file already carried and makes
// sure the processed marker appears exactly once.
func mergedComment(existing *flacvorbis.MetaDataBlockVorbisComment) string {
	if existing == nil {
		return ProcessedMarker
	}
	values, err := existing.Get("COMMENT")
	if err != nil || len(values) == 0 {
		return ProcessedMarker
	}
	merged := strings.Join(values, "; ")
	if strings.Contains(merged, ProcessedMarker) {
		return merged
	}
	return merged + "; " + ProcessedMarker
}
