package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tracktidy/internal/metadata"
)

var (
	trackHeader = []string{"key", "track", "artist", "album_name", "album_artist", "genre", "date"}
	albumHeader = []string{"name", "artist"}
)

// readRows loads all data rows from a CSV file, skipping the header. A
// missing file reads as empty. Short rows are padded so readers tolerate
// trailing empty fields the writer omitted.
func readRows(path string, width int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			continue
		}
		for len(row) < width {
			row = append(row, "")
		}
		rows = append(rows, row[:width])
	}
	return rows, nil
}

// writeRows rewrites the file with a header plus the given rows. The content
// lands in a temp file in the same directory and takes effect only on a
// successful rename.
func writeRows(path string, header []string, rows [][]string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	writer := csv.NewWriter(tmp)
	if err = writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err = writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func trackToRow(rec metadata.TrackRecord) []string {
	return []string{rec.Key, rec.Track, rec.Artist, rec.AlbumName, rec.AlbumArtist, rec.Genre, rec.Date}
}

func rowToTrack(row []string) metadata.TrackRecord {
	return metadata.TrackRecord{
		Key:         row[0],
		Track:       row[1],
		Artist:      row[2],
		AlbumName:   row[3],
		AlbumArtist: row[4],
		Genre:       row[5],
		Date:        row[6],
	}
}

func albumToRow(entry metadata.AlbumEntry) []string {
	return []string{entry.Name, entry.Artist}
}

func rowToAlbum(row []string) metadata.AlbumEntry {
	return metadata.AlbumEntry{Name: row[0], Artist: row[1]}
}
