package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"tracktidy/internal/logging"
	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
)

const (
	// TracksFile is the track store filename inside the data directory.
	TracksFile = "metadata.csv"
	// AlbumsFile is the album catalog filename inside the data directory.
	AlbumsFile = "albums.csv"

	lockFile = ".store.lock"
)

// Store holds the track records and album catalog for one data directory.
// All mutation goes through full-record upserts that rewrite the backing CSV
// atomically.
type Store struct {
	dir    string
	lock   *flock.Flock
	logger *slog.Logger

	mu     sync.RWMutex
	tracks []metadata.TrackRecord
	albums []metadata.AlbumEntry
}

// Open loads the store in dir, acquiring its advisory lock. If another
// process holds the lock, Open fails immediately with the lock-contention
// class rather than blocking.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	logger = logging.NewComponentLogger(logger, "store")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "open", dir, err)
	}
	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "store", "open", "acquire lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrLockContention, "store", "open",
			"another run is using the store at "+dir, nil)
	}

	s := &Store{dir: dir, lock: lock, logger: logger}
	if err := s.Reload(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

// Close releases the store lock.
func (s *Store) Close() error {
	return s.lock.Unlock()
}

// Reload re-reads both CSV files, discarding in-memory state. Called after a
// sync pull replaces the files underneath the store.
func (s *Store) Reload() error {
	tracks, err := readRows(filepath.Join(s.dir, TracksFile), len(trackHeader))
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "read", TracksFile, err)
	}
	albums, err := readRows(filepath.Join(s.dir, AlbumsFile), len(albumHeader))
	if err != nil {
		return services.Wrap(services.ErrStore, "store", "read", AlbumsFile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = s.tracks[:0]
	for _, row := range tracks {
		s.tracks = append(s.tracks, rowToTrack(row))
	}
	s.albums = s.albums[:0]
	for _, row := range albums {
		s.albums = append(s.albums, rowToAlbum(row))
	}
	return nil
}

// Track returns the record for key, if present.
func (s *Store) Track(key string) (metadata.TrackRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.tracks {
		if rec.Key == key {
			return rec, true
		}
	}
	return metadata.TrackRecord{}, false
}

// ContainsTrack reports whether a record exists for key.
func (s *Store) ContainsTrack(key string) bool {
	_, ok := s.Track(key)
	return ok
}

// TrackCount returns the number of persisted track records.
func (s *Store) TrackCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}

// UpsertTrack inserts or replaces the record identified by its key, then
// rewrites the track file atomically.
func (s *Store) UpsertTrack(rec metadata.TrackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.tracks {
		if s.tracks[i].Key == rec.Key {
			s.tracks[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		s.tracks = append(s.tracks, rec)
	}

	if err := s.persistTracks(); err != nil {
		return err
	}
	s.logger.Debug("track record upserted",
		logging.String(logging.FieldFile, rec.Key),
		logging.Bool("replaced", replaced))
	return nil
}

// Albums returns a copy of the album catalog.
func (s *Store) Albums() []metadata.AlbumEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]metadata.AlbumEntry, len(s.albums))
	copy(out, s.albums)
	return out
}

// ContainsAlbum reports whether the catalog already holds the entry's
// (name, artist) identity.
func (s *Store) ContainsAlbum(entry metadata.AlbumEntry) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, known := range s.albums {
		if known.Equal(entry) {
			return true
		}
	}
	return false
}

// UpsertAlbum appends the entry unless its identity pair is already
// cataloged, then rewrites the album file atomically.
func (s *Store) UpsertAlbum(entry metadata.AlbumEntry) error {
	if entry.Zero() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, known := range s.albums {
		if known.Equal(entry) {
			return nil
		}
	}
	s.albums = append(s.albums, entry)

	if err := s.persistAlbums(); err != nil {
		return err
	}
	s.logger.Debug("album cataloged",
		logging.String("album", entry.Name),
		logging.String("artist", entry.Artist))
	return nil
}

// Files returns the absolute paths of the store's CSV files, whether or not
// they exist yet. Used by the sync coordinator.
func (s *Store) Files() []string {
	return []string{
		filepath.Join(s.dir, TracksFile),
		filepath.Join(s.dir, AlbumsFile),
	}
}

// Dir returns the data directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) persistTracks() error {
	rows := make([][]string, 0, len(s.tracks))
	for _, rec := range s.tracks {
		rows = append(rows, trackToRow(rec))
	}
	if err := writeRows(filepath.Join(s.dir, TracksFile), trackHeader, rows); err != nil {
		return services.Wrap(services.ErrStore, "store", "write", TracksFile, err)
	}
	return nil
}

func (s *Store) persistAlbums() error {
	rows := make([][]string, 0, len(s.albums))
	for _, entry := range s.albums {
		rows = append(rows, albumToRow(entry))
	}
	if err := writeRows(filepath.Join(s.dir, AlbumsFile), albumHeader, rows); err != nil {
		return services.Wrap(services.ErrStore, "store", "write", AlbumsFile, err)
	}
	return nil
}
