package metadata

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TrackRecord holds the descriptive fields for one audio file. Key is the
// file's original relative path and is unique and immutable once persisted;
// every other field is optional text.
type TrackRecord struct {
	Key         string
	Track       string
	Artist      string
	AlbumName   string
	AlbumArtist string
	Genre       string
	Date        string
}

// Album returns the record's album identity.
func (r TrackRecord) Album() AlbumEntry {
	return AlbumEntry{Name: r.AlbumName, Artist: r.AlbumArtist}
}

// Empty reports whether the record carries no descriptive fields at all.
func (r TrackRecord) Empty() bool {
	return r.Track == "" && r.Artist == "" && r.AlbumName == "" &&
		r.AlbumArtist == "" && r.Genre == "" && r.Date == ""
}

// AlbumEntry identifies one catalog album. Entries are deduplicated by the
// (Name, Artist) pair.
type AlbumEntry struct {
	Name   string
	Artist string
}

// Zero reports whether the entry names no album.
func (a AlbumEntry) Zero() bool {
	return strings.TrimSpace(a.Name) == ""
}

// Equal compares two entries case-insensitively on both identity fields.
func (a AlbumEntry) Equal(other AlbumEntry) bool {
	return strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(other.Name)) &&
		strings.EqualFold(strings.TrimSpace(a.Artist), strings.TrimSpace(other.Artist))
}

// CleanText normalizes inference and tag text to NFC form with collapsed
// whitespace so the same title read from different sources compares equal.
func CleanText(value string) string {
	value = norm.NFC.String(value)
	return strings.Join(strings.Fields(value), " ")
}

// CleanRecord applies CleanText to every descriptive field. The key is left
// untouched; it must match the discovered filename byte for byte.
func CleanRecord(rec TrackRecord) TrackRecord {
	rec.Track = CleanText(rec.Track)
	rec.Artist = CleanText(rec.Artist)
	rec.AlbumName = CleanText(rec.AlbumName)
	rec.AlbumArtist = CleanText(rec.AlbumArtist)
	rec.Genre = CleanText(rec.Genre)
	rec.Date = strings.TrimSpace(rec.Date)
	return rec
}
