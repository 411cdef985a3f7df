package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracktidy/internal/confirm"
	"tracktidy/internal/logging"
	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
	"tracktidy/internal/store"
	"tracktidy/internal/syncrepo"
	"tracktidy/internal/tags"
	"tracktidy/internal/testsupport"
	"tracktidy/internal/transport"
)

type stubInferrer struct {
	records map[string]metadata.TrackRecord
	fail    map[string]error
	calls   []string
}

func (s *stubInferrer) Infer(_ context.Context, filename string, _ tags.ExistingTags, _ []metadata.AlbumEntry) (metadata.TrackRecord, error) {
	s.calls = append(s.calls, filename)
	if err, ok := s.fail[filename]; ok {
		return metadata.TrackRecord{}, err
	}
	rec := s.records[filename]
	rec.Key = filename
	return rec, nil
}

func newTestOrchestrator(t *testing.T, root string, inf Inferrer, opts Options) (*Orchestrator, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data"), logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	opts.Root = root
	coordinator := syncrepo.New("", filepath.Join(t.TempDir(), "clone"), st.Dir(), logging.NewNop())
	return New(transport.NewLocal(), st, inf, confirm.AutoAccept{}, coordinator, logging.NewNop(), opts), st
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteAudioFile(t, filepath.Join(root, "DJ_Set_Live_2023.mp3"))

	inferred := metadata.TrackRecord{
		Track:       "DJ Set",
		Artist:      "Unknown",
		AlbumName:   "Live 2023",
		AlbumArtist: "Unknown",
		Genre:       "House",
		Date:        "2023",
	}
	inf := &stubInferrer{records: map[string]metadata.TrackRecord{"DJ_Set_Live_2023.mp3": inferred}}
	orch, st := newTestOrchestrator(t, root, inf, Options{})

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatal("run id must be assigned")
	}

	rec, ok := st.Track("DJ_Set_Live_2023.mp3")
	if !ok {
		t.Fatal("record not persisted")
	}
	want := inferred
	want.Key = "DJ_Set_Live_2023.mp3"
	if rec != want {
		t.Fatalf("persisted record = %+v", rec)
	}
	if !st.ContainsAlbum(metadata.AlbumEntry{Name: "Live 2023", Artist: "Unknown"}) {
		t.Fatal("album catalog entry missing")
	}

	// metadata.csv holds exactly the header plus one row for the file
	raw, err := os.ReadFile(filepath.Join(st.Dir(), store.TracksFile))
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "DJ_Set_Live_2023.mp3" {
		t.Fatalf("unexpected store rows %v", rows)
	}

	// the audio file carries both the fields and the processed marker
	codec, _ := tags.ForPath("DJ_Set_Live_2023.mp3")
	existing, err := codec.Read(filepath.Join(root, "DJ_Set_Live_2023.mp3"))
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if !existing.Processed {
		t.Fatal("processed marker missing after run")
	}
	if existing.Track != "DJ Set" || existing.AlbumName != "Live 2023" {
		t.Fatalf("tag fields = %+v", existing.TrackRecord)
	}
}

func TestRunTagsAndPersistsFlac(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFLACFile(t, filepath.Join(root, "festival_set.flac"))

	inferred := metadata.TrackRecord{
		Track:     "Festival Set",
		Artist:    "Unknown",
		AlbumName: "Summer 2023",
		Genre:     "Techno",
	}
	inf := &stubInferrer{records: map[string]metadata.TrackRecord{"festival_set.flac": inferred}}
	orch, st := newTestOrchestrator(t, root, inf, Options{})

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if !st.ContainsTrack("festival_set.flac") {
		t.Fatal("record not persisted")
	}

	codec, _ := tags.ForPath("festival_set.flac")
	existing, err := codec.Read(filepath.Join(root, "festival_set.flac"))
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if !existing.Processed {
		t.Fatal("processed marker missing after run")
	}
	if existing.Track != "Festival Set" || existing.Genre != "Techno" {
		t.Fatalf("tag fields = %+v", existing.TrackRecord)
	}

	// a second run skips the now marked file instead of failing it again
	summary, err = orch.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Skipped != 1 || summary.Failed != 0 {
		t.Fatalf("second summary = %+v", summary)
	}
}

func TestRunBatchIsolation(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		testsupport.WriteAudioFile(t, filepath.Join(root, name))
	}
	inf := &stubInferrer{
		records: map[string]metadata.TrackRecord{
			"a.mp3": {Track: "A"},
			"c.mp3": {Track: "C"},
		},
		fail: map[string]error{
			"b.mp3": services.Wrap(services.ErrInference, "inference", "parse", "b.mp3", nil),
		},
	}
	orch, st := newTestOrchestrator(t, root, inf, Options{})

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Key != "b.mp3" {
		t.Fatalf("failures = %+v", summary.Failures)
	}
	if summary.Failures[0].Class != "inference" {
		t.Fatalf("failure class = %q", summary.Failures[0].Class)
	}
	if st.TrackCount() != 2 {
		t.Fatalf("store rows = %d", st.TrackCount())
	}
	if st.ContainsTrack("b.mp3") {
		t.Fatal("failed file must not be persisted")
	}
}

func TestRunSkipsProcessedMarker(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "done.mp3")
	testsupport.WriteAudioFile(t, path)
	codec, _ := tags.ForPath(path)
	if err := codec.Write(path, metadata.TrackRecord{Key: "done.mp3", Track: "Done"}); err != nil {
		t.Fatalf("pre-tag: %v", err)
	}

	inf := &stubInferrer{records: map[string]metadata.TrackRecord{"done.mp3": {Track: "Again"}}}
	orch, _ := newTestOrchestrator(t, root, inf, Options{})

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Skipped != 1 || summary.Processed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(inf.calls) != 0 {
		t.Fatalf("inference must not run for marked files, got %v", inf.calls)
	}
}

func TestRunReprocessTaggedOverride(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "done.mp3")
	testsupport.WriteAudioFile(t, path)
	codec, _ := tags.ForPath(path)
	if err := codec.Write(path, metadata.TrackRecord{Key: "done.mp3", Track: "Old"}); err != nil {
		t.Fatalf("pre-tag: %v", err)
	}

	inf := &stubInferrer{records: map[string]metadata.TrackRecord{"done.mp3": {Track: "New"}}}
	orch, st := newTestOrchestrator(t, root, inf, Options{ReprocessTagged: true})

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	rec, _ := st.Track("done.mp3")
	if rec.Track != "New" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestRunSkipsStoredKey(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteAudioFile(t, filepath.Join(root, "known.mp3"))

	inf := &stubInferrer{records: map[string]metadata.TrackRecord{"known.mp3": {Track: "Fresh"}}}
	orch, st := newTestOrchestrator(t, root, inf, Options{})
	if err := st.UpsertTrack(metadata.TrackRecord{Key: "known.mp3", Track: "Existing"}); err != nil {
		t.Fatal(err)
	}

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Skipped != 1 || summary.Processed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	rec, _ := st.Track("known.mp3")
	if rec.Track != "Existing" {
		t.Fatalf("stored record must be untouched, got %+v", rec)
	}

	// override flag reprocesses and overwrites
	orchOverride := New(transport.NewLocal(), st, inf, confirm.AutoAccept{},
		syncrepo.New("", filepath.Join(t.TempDir(), "clone"), st.Dir(), logging.NewNop()),
		logging.NewNop(), Options{Root: root, ReprocessStored: true})
	summary, err = orchOverride.Run(context.Background())
	if err != nil {
		t.Fatalf("override run: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("override summary = %+v", summary)
	}
	rec, _ = st.Track("known.mp3")
	if rec.Track != "Fresh" {
		t.Fatalf("override record = %+v", rec)
	}
}

func TestRunDryRunLeavesEverythingUntouched(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "preview.mp3")
	testsupport.WriteAudioFile(t, path)

	inf := &stubInferrer{records: map[string]metadata.TrackRecord{"preview.mp3": {Track: "Preview"}}}
	orch, st := newTestOrchestrator(t, root, inf, Options{DryRun: true})

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(inf.calls) != 1 {
		t.Fatalf("inference calls = %v", inf.calls)
	}

	if st.TrackCount() != 0 {
		t.Fatalf("dry run must not persist, store rows = %d", st.TrackCount())
	}
	codec, _ := tags.ForPath(path)
	existing, err := codec.Read(path)
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	if existing.Processed || existing.Track != "" {
		t.Fatalf("dry run must not tag the file, got %+v", existing)
	}
}

func TestRunListFailureIsFatal(t *testing.T) {
	inf := &stubInferrer{}
	orch, _ := newTestOrchestrator(t, filepath.Join(t.TempDir(), "missing"), inf, Options{})

	if _, err := orch.Run(context.Background()); err == nil {
		t.Fatal("expected fatal error for unlistable root")
	}
}
