package pipeline

// Status represents the lifecycle of one file within a run.
type Status string

const (
	StatusDiscovered       Status = "discovered"
	StatusSkippedProcessed Status = "skipped_processed"
	StatusSkippedInStore   Status = "skipped_in_store"
	StatusLoaded           Status = "loaded"
	StatusTagsRead         Status = "tags_read"
	StatusInferred         Status = "inferred"
	StatusReviewed         Status = "reviewed"
	StatusPersisted        Status = "persisted"
	StatusTagWritten       Status = "tag_written"
	StatusPublished        Status = "published"
	StatusDone             Status = "done"
	StatusFailed           Status = "failed"
)

// Skipped reports whether the status is one of the skip terminals.
func (s Status) Skipped() bool {
	return s == StatusSkippedProcessed || s == StatusSkippedInStore
}

// Failure records why one file could not be processed.
type Failure struct {
	Key    string
	Status Status
	Class  string
	Reason string
}

// Summary aggregates the outcome of one run. It is never persisted.
type Summary struct {
	RunID        string
	Processed    int
	Skipped      int
	Failed       int
	SyncDegraded bool
	Aborted      bool
	Failures     []Failure
}
