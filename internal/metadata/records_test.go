package metadata

import "testing"

func TestAlbumEntryEqualIgnoresCaseAndPadding(t *testing.T) {
	a := AlbumEntry{Name: "Coachella 2022", Artist: "Various Artists"}
	b := AlbumEntry{Name: " coachella 2022 ", Artist: "various artists"}
	if !a.Equal(b) {
		t.Fatalf("expected %+v to equal %+v", a, b)
	}
	c := AlbumEntry{Name: "Coachella 2023", Artist: "Various Artists"}
	if a.Equal(c) {
		t.Fatalf("expected %+v to differ from %+v", a, c)
	}
}

func TestCleanTextCollapsesWhitespace(t *testing.T) {
	got := CleanText("  Essential   Mix\t2023 ")
	if got != "Essential Mix 2023" {
		t.Fatalf("unexpected cleaned text %q", got)
	}
}

func TestCleanRecordLeavesKeyUntouched(t *testing.T) {
	rec := CleanRecord(TrackRecord{Key: "DJ_Set  Live.mp3", Track: " DJ   Set "})
	if rec.Key != "DJ_Set  Live.mp3" {
		t.Fatalf("key was rewritten: %q", rec.Key)
	}
	if rec.Track != "DJ Set" {
		t.Fatalf("unexpected track %q", rec.Track)
	}
}

func TestTrackRecordEmpty(t *testing.T) {
	if !(TrackRecord{Key: "x.mp3"}).Empty() {
		t.Fatal("record with only a key should be empty")
	}
	if (TrackRecord{Key: "x.mp3", Genre: "House"}).Empty() {
		t.Fatal("record with a genre should not be empty")
	}
}
