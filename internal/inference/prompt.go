package inference

import (
	"encoding/json"
	"strings"

	"tracktidy/internal/metadata"
	"tracktidy/internal/tags"
)

// buildPrompt produces the deterministic user prompt for one file. The same
// filename, tags, and catalog always yield the same payload.
func buildPrompt(filename string, existing tags.ExistingTags, catalog []metadata.AlbumEntry) string {
	var b strings.Builder

	b.WriteString("Given an audio filename, infer the most likely track metadata.\n")
	b.WriteString("Return STRICT JSON only with this exact schema and no extra keys:\n")
	b.WriteString(`{
  "track": string,
  "artist": string,
  "album": { "name": string, "artist": string },
  "genre": string,
  "date": string | null
}
`)
	b.WriteString("Use ISO-8601 yyyy or yyyy-mm-dd for date if known, else null.\n\n")

	b.WriteString("Album selection rules (do NOT guess from the filename beyond these rules):\n")
	b.WriteString("- If the content is a festival or event, the album is the festival name with the year (e.g. 'Coachella 2022') and the album artist is 'Various Artists'.\n")
	b.WriteString("- If the content is part of an ongoing series (e.g. 'Radio 1 Essential Mix'), the album is that series name with no year, album artist 'Various Artists'.\n")
	b.WriteString("- Otherwise, for a single-artist set, use '{Artist} Sets' as the album name and that artist as the album artist.\n")
	b.WriteString("- If your chosen album name matches one of the known albums, use that name and its album artist as-is.\n\n")

	b.WriteString("Track title rules:\n")
	b.WriteString("- For a festival or event, the track title is exactly the artist name.\n")
	b.WriteString("- For a series entry, the track title is '{Artist} {Year}' when a year is known, otherwise just '{Artist}'.\n")
	b.WriteString("- Otherwise choose a concise, human-friendly title; avoid repeating the album name.\n\n")

	knownAlbums := make([]map[string]string, 0, len(catalog))
	for _, album := range catalog {
		knownAlbums = append(knownAlbums, map[string]string{"name": album.Name, "artist": album.Artist})
	}
	encodedAlbums, _ := json.Marshal(knownAlbums)
	b.WriteString("Known albums: ")
	b.Write(encodedAlbums)
	b.WriteString("\n\n")

	b.WriteString("Heuristics:\n")
	b.WriteString("- Normalize separators like underscores and dashes to spaces.\n")
	b.WriteString("- If city, country, or year are present, consider them for the date or title.\n")
	b.WriteString("- Prefer a widely used genre bucket (e.g. 'House', 'Techno', 'Pop').\n\n")

	b.WriteString("Filename: ")
	b.WriteString(filename)
	b.WriteString("\n")

	if !existing.Empty() {
		hints, _ := json.Marshal(map[string]string{
			"track":        existing.Track,
			"artist":       existing.Artist,
			"album_name":   existing.AlbumName,
			"album_artist": existing.AlbumArtist,
			"genre":        existing.Genre,
			"date":         existing.Date,
		})
		b.WriteString("Existing tags (hints only, may be wrong or partial): ")
		b.Write(hints)
		b.WriteString("\n")
	}

	b.WriteString("Output: JSON only.")
	return b.String()
}
