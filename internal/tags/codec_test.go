package tags

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
)

// minimal MPEG frame header so the file is a plausible tagless mp3
var mp3Stub = append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 64)...)

func writeStubMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DJ_Set_Live_2023.mp3")
	if err := os.WriteFile(path, mp3Stub, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestForPath(t *testing.T) {
	if _, ok := ForPath("sets/mix.mp3"); !ok {
		t.Fatal("mp3 should resolve a codec")
	}
	if _, ok := ForPath("sets/mix.FLAC"); !ok {
		t.Fatal("extension match should be case-insensitive")
	}
	if _, ok := ForPath("sets/cover.jpg"); ok {
		t.Fatal("unrecognized extension should not resolve")
	}
}

func TestMP3ReadOfUntaggedFileIsEmpty(t *testing.T) {
	path := writeStubMP3(t)
	codec, _ := ForPath(path)

	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !existing.Empty() {
		t.Fatalf("expected empty tags, got %+v", existing)
	}
	if existing.Processed {
		t.Fatal("untagged file cannot carry the processed marker")
	}
}

func TestMP3WriteReadRoundTrip(t *testing.T) {
	path := writeStubMP3(t)
	codec, _ := ForPath(path)

	rec := metadata.TrackRecord{
		Key:         "DJ_Set_Live_2023.mp3",
		Track:       "DJ Set",
		Artist:      "Unknown",
		AlbumName:   "Live 2023",
		AlbumArtist: "Unknown",
		Genre:       "House",
		Date:        "2023",
	}
	if err := codec.Write(path, rec); err != nil {
		t.Fatalf("write: %v", err)
	}

	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if existing.Track != rec.Track || existing.Artist != rec.Artist ||
		existing.AlbumName != rec.AlbumName || existing.AlbumArtist != rec.AlbumArtist ||
		existing.Genre != rec.Genre || existing.Date != rec.Date {
		t.Fatalf("round trip mismatch: %+v", existing.TrackRecord)
	}
	if !existing.Processed {
		t.Fatal("processed marker missing after write")
	}
}

func TestMP3RepeatWriteKeepsSingleMarker(t *testing.T) {
	path := writeStubMP3(t)
	codec, _ := ForPath(path)
	rec := metadata.TrackRecord{Track: "DJ Set", Artist: "Unknown", Genre: "House"}

	if err := codec.Write(path, rec); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := codec.Write(path, rec); err != nil {
		t.Fatalf("second write: %v", err)
	}

	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !existing.Processed {
		t.Fatal("marker lost on rewrite")
	}
}

// minimal FLAC stream: magic plus an empty STREAMINFO as the last block,
// followed by a frame sync code so parsers accept the audio stream
var flacStub = append(append([]byte{'f', 'L', 'a', 'C', 0x80, 0x00, 0x00, 0x22}, make([]byte, 34)...), 0xFF, 0xF8)

func writeStubFLAC(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "day_one.flac")
	if err := os.WriteFile(path, flacStub, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFLACWriteReadRoundTrip(t *testing.T) {
	path := writeStubFLAC(t)
	codec, _ := ForPath(path)

	rec := metadata.TrackRecord{
		Key:         "day_one.flac",
		Track:       "Opening Set",
		Artist:      "Unknown",
		AlbumName:   "Live 2023",
		AlbumArtist: "Unknown",
		Genre:       "House",
		Date:        "2023",
	}
	if err := codec.Write(path, rec); err != nil {
		t.Fatalf("write: %v", err)
	}

	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if existing.Track != rec.Track || existing.Artist != rec.Artist ||
		existing.AlbumName != rec.AlbumName || existing.AlbumArtist != rec.AlbumArtist ||
		existing.Genre != rec.Genre || existing.Date != rec.Date {
		t.Fatalf("round trip mismatch: %+v", existing.TrackRecord)
	}
	if !existing.Processed {
		t.Fatal("processed marker missing after write")
	}
}

func TestFLACRepeatWriteKeepsSingleMarker(t *testing.T) {
	path := writeStubFLAC(t)
	codec, _ := ForPath(path)
	rec := metadata.TrackRecord{Track: "Opening Set", Artist: "Unknown", Genre: "House"}

	if err := codec.Write(path, rec); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := codec.Write(path, rec); err != nil {
		t.Fatalf("second write: %v", err)
	}

	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !existing.Processed {
		t.Fatal("marker lost on rewrite")
	}
}

func TestFLACWriteOfCorruptFileIsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.flac")
	if err := os.WriteFile(path, []byte("not a real flac"), 0o644); err != nil {
		t.Fatal(err)
	}
	codec, _ := ForPath(path)

	err := codec.Write(path, metadata.TrackRecord{Track: "x"})
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected format error on write, got %v", err)
	}
}

func TestProbeCodecIsReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.ogg")
	if err := os.WriteFile(path, []byte("not a real ogg"), 0o644); err != nil {
		t.Fatal(err)
	}
	codec, _ := ForPath(path)

	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read of unparseable file should be empty, got %v", err)
	}
	if !existing.Empty() || existing.Processed {
		t.Fatalf("expected empty read, got %+v", existing)
	}

	err = codec.Write(path, metadata.TrackRecord{Track: "x"})
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected format error on write, got %v", err)
	}
}
