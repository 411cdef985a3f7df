package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"tracktidy/internal/confirm"
	"tracktidy/internal/logging"
	"tracktidy/internal/metadata"
	"tracktidy/internal/services"
	"tracktidy/internal/store"
	"tracktidy/internal/syncrepo"
	"tracktidy/internal/tags"
	"tracktidy/internal/transport"
)

// Inferrer is the inference seam consumed by the orchestrator. The inference
// adapter satisfies it; tests substitute deterministic stand-ins.
type Inferrer interface {
	Infer(ctx context.Context, filename string, existing tags.ExistingTags, catalog []metadata.AlbumEntry) (metadata.TrackRecord, error)
}

// Options control which skip checks a run honors.
type Options struct {
	Root string
	// ReprocessTagged disables the processed-marker skip check.
	ReprocessTagged bool
	// ReprocessStored disables the store-membership skip check.
	ReprocessStored bool
	// DryRun stops each file after inference: nothing is reviewed, stored,
	// tagged, or published, and the run never pushes.
	DryRun bool
}

// Orchestrator composes the transport, store, inference, review, and sync
// collaborators into one sequential batch run.
type Orchestrator struct {
	transport transport.Transport
	store     *store.Store
	inferrer  Inferrer
	reviewer  confirm.Reviewer
	sync      *syncrepo.Coordinator
	logger    *slog.Logger
	opts      Options
}

// New constructs an orchestrator over the given collaborators.
func New(tr transport.Transport, st *store.Store, inf Inferrer, rev confirm.Reviewer, sync *syncrepo.Coordinator, logger *slog.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		transport: tr,
		store:     st,
		inferrer:  inf,
		reviewer:  rev,
		sync:      sync,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		opts:      opts,
	}
}

// Run processes every discoverable file once and returns the run summary.
// Lock contention and a failed enumeration are the only fatal errors; every
// per-file failure is logged, counted, and skipped over.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	log := o.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	if err := o.sync.Acquire(); err != nil {
		return summary, err
	}
	defer o.sync.Release()

	if err := o.sync.Pull(ctx); err != nil {
		log.Warn("sync pull failed; proceeding on local state", logging.Error(err))
	}
	if err := o.store.Reload(); err != nil {
		return summary, err
	}

	log.Info("run started", logging.String("root", o.opts.Root))
	for rel, err := range o.transport.List(ctx, o.opts.Root) {
		if err != nil {
			return summary, services.Wrap(services.ErrTransport, "pipeline", "list", o.opts.Root, err)
		}

		status, fileErr := o.processFile(ctx, log, rel)
		switch {
		case errors.Is(fileErr, confirm.ErrAborted):
			log.Warn("run aborted by operator", logging.String(logging.FieldFile, rel))
			summary.Aborted = true
		case fileErr != nil:
			log.Error("file failed",
				logging.String(logging.FieldFile, rel),
				logging.String(logging.FieldState, string(status)),
				logging.Error(fileErr))
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Key:    rel,
				Status: status,
				Class:  services.Class(fileErr),
				Reason: fileErr.Error(),
			})
		case status.Skipped():
			log.Debug("file skipped",
				logging.String(logging.FieldFile, rel),
				logging.String(logging.FieldReason, string(status)))
			summary.Skipped++
		default:
			summary.Processed++
		}
		if summary.Aborted {
			break
		}
	}

	if !o.opts.DryRun {
		if err := o.sync.Push(ctx); err != nil {
			log.Warn("sync push failed; metadata remains local", logging.Error(err))
		}
	}
	summary.SyncDegraded = o.sync.Degraded()

	log.Info("run finished",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Bool("sync_degraded", summary.SyncDegraded))
	return summary, nil
}

// processFile drives one file through the state machine. The returned status
// is the last state reached; a non-nil error means the file failed there.
func (o *Orchestrator) processFile(ctx context.Context, log *slog.Logger, rel string) (status Status, err error) {
	status = StatusDiscovered

	codec, ok := tags.ForPath(rel)
	if !ok {
		return status, services.Wrap(services.ErrFormat, "pipeline", "codec", rel, nil)
	}

	wc, err := o.transport.Load(ctx, o.opts.Root, rel)
	if err != nil {
		return status, err
	}
	defer func() {
		if closeErr := wc.Close(); closeErr != nil {
			log.Warn("working copy cleanup failed",
				logging.String(logging.FieldFile, rel),
				logging.Error(closeErr))
		}
	}()
	status = StatusLoaded

	existing, err := codec.Read(wc.Path)
	if err != nil {
		return status, err
	}
	status = StatusTagsRead

	// Skip checks run in a fixed order: the embedded marker first, then
	// store membership. Either short-circuits without further I/O.
	if existing.Processed && !o.opts.ReprocessTagged {
		return StatusSkippedProcessed, nil
	}
	if o.store.ContainsTrack(rel) && !o.opts.ReprocessStored {
		return StatusSkippedInStore, nil
	}

	record, err := o.inferrer.Infer(ctx, rel, existing, o.store.Albums())
	if err != nil {
		return status, err
	}
	status = StatusInferred

	if o.opts.DryRun {
		log.Info("would set metadata",
			logging.String(logging.FieldFile, rel),
			logging.String("track", record.Track),
			logging.String("artist", record.Artist),
			logging.String("album", record.AlbumName),
			logging.String("genre", record.Genre),
			logging.String("date", record.Date))
		return StatusDone, nil
	}

	reviewed, err := o.reviewer.Review(ctx, rel, record)
	if err != nil {
		return status, err
	}
	reviewed.Key = rel
	status = StatusReviewed

	if err := o.store.UpsertTrack(reviewed); err != nil {
		return status, err
	}
	if album := reviewed.Album(); !album.Zero() {
		if err := o.store.UpsertAlbum(album); err != nil {
			return status, err
		}
	}
	status = StatusPersisted

	if err := codec.Write(wc.Path, reviewed); err != nil {
		return status, err
	}
	status = StatusTagWritten

	if err := o.transport.Save(ctx, o.opts.Root, rel, wc); err != nil {
		return status, err
	}
	status = StatusPublished

	log.Info("file processed",
		logging.String(logging.FieldFile, rel),
		logging.String("track", reviewed.Track),
		logging.String("album", reviewed.AlbumName))
	return StatusDone, nil
}
