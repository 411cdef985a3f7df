package inference

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"tracktidy/internal/metadata"
)

// snapThreshold is the minimum Jaro-Winkler similarity for treating a
// proposed album as an alias of a cataloged one.
const snapThreshold = 0.93

// snapAlbum maps a proposed album onto the closest existing catalog identity.
// Exact matches (case-insensitive) win outright; otherwise the best
// sufficiently similar name with a compatible artist is used. Returns false
// when the proposal is genuinely novel.
func snapAlbum(proposed metadata.AlbumEntry, catalog []metadata.AlbumEntry) (metadata.AlbumEntry, bool) {
	if proposed.Zero() {
		return metadata.AlbumEntry{}, false
	}

	for _, known := range catalog {
		if known.Equal(proposed) {
			return known, true
		}
		if strings.EqualFold(known.Name, proposed.Name) {
			return known, true
		}
	}

	metric := metrics.NewJaroWinkler()
	best := metadata.AlbumEntry{}
	bestScore := 0.0
	for _, known := range catalog {
		score := strutil.Similarity(normalizeAlbumName(proposed.Name), normalizeAlbumName(known.Name), metric)
		if score > bestScore {
			bestScore = score
			best = known
		}
	}
	if bestScore >= snapThreshold {
		return best, true
	}
	return metadata.AlbumEntry{}, false
}

func normalizeAlbumName(name string) string {
	return strings.ToLower(metadata.CleanText(name))
}
