package inference

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"tracktidy/internal/logging"
	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
	"tracktidy/internal/services/llm"
	"tracktidy/internal/tags"
)

// Client is the seam between the adapter and the completion endpoint. Tests
// substitute deterministic stand-ins.
type Client interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const systemPrompt = "You are a music metadata expert. You return strict JSON only, with no extra keys and no commentary."

// Adapter drives one inference call per file.
type Adapter struct {
	client  Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option customizes the adapter.
type Option func(*Adapter)

// WithLimiter overrides the request pacing limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(a *Adapter) {
		if limiter != nil {
			a.limiter = limiter
		}
	}
}

// NewAdapter constructs an adapter around the given client. By default calls
// are paced to one per second to stay inside provider limits.
func NewAdapter(client Client, logger *slog.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  logging.NewComponentLogger(logger, "inference"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Infer proposes a full record for the file. Network-level failures carry
// the transport class; malformed responses carry the inference class.
// Neither is retried.
func (a *Adapter) Infer(ctx context.Context, filename string, existing tags.ExistingTags, catalog []metadata.AlbumEntry) (metadata.TrackRecord, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return metadata.TrackRecord{}, services.Wrap(services.ErrTransport, "inference", "wait", filename, err)
	}

	prompt := buildPrompt(filename, existing, catalog)
	raw, err := a.client.CompleteJSON(ctx, systemPrompt, prompt)
	if err != nil {
		return metadata.TrackRecord{}, services.Wrap(services.ErrTransport, "inference", "request", filename, err)
	}

	rec, err := parseResponse(filename, raw)
	if err != nil {
		return metadata.TrackRecord{}, err
	}

	rec = metadata.CleanRecord(rec)
	if snapped, ok := snapAlbum(rec.Album(), catalog); ok {
		a.logger.Debug("album snapped onto catalog entry",
			logging.String(logging.FieldFile, filename),
			logging.String("proposed", rec.AlbumName),
			logging.String("snapped", snapped.Name))
		rec.AlbumName = snapped.Name
		rec.AlbumArtist = snapped.Artist
	}
	return rec, nil
}

type inferredPayload struct {
	Track  string `json:"track"`
	Artist string `json:"artist"`
	Album  struct {
		Name   string `json:"name"`
		Artist string `json:"artist"`
	} `json:"album"`
	Genre string  `json:"genre"`
	Date  *string `json:"date"`
}

func parseResponse(filename, raw string) (metadata.TrackRecord, error) {
	var payload inferredPayload
	decoder := json.NewDecoder(strings.NewReader(llm.ExtractJSON(raw)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return metadata.TrackRecord{}, services.Wrap(services.ErrInference, "inference", "parse", filename, err)
	}

	albumArtist := payload.Album.Artist
	if albumArtist == "" {
		albumArtist = payload.Artist
	}
	artist := payload.Artist
	if artist == "" {
		artist = albumArtist
	}
	date := ""
	if payload.Date != nil {
		date = *payload.Date
	}
	return metadata.TrackRecord{
		Key:         filename,
		Track:       payload.Track,
		Artist:      artist,
		AlbumName:   payload.Album.Name,
		AlbumArtist: albumArtist,
		Genre:       payload.Genre,
		Date:        date,
	}, nil
}
