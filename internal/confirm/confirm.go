package confirm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"tracktidy/internal/logging"
	"tracktidy/internal/metadata"
)

// ErrAborted is returned when the operator cancels the review form. The
// caller decides whether that ends the whole run or just the current file.
var ErrAborted = errors.New("review aborted by operator")

// Reviewer presents an inferred record and returns the version to persist.
type Reviewer interface {
	Review(ctx context.Context, key string, record metadata.TrackRecord) (metadata.TrackRecord, error)
}

// NewReviewer selects the reviewer implementation. Interactive review
// requires a terminal on stdin; otherwise records are accepted as inferred.
func NewReviewer(enabled bool, logger *slog.Logger) Reviewer {
	log := logging.NewComponentLogger(logger, "confirm")
	if !enabled {
		return AutoAccept{logger: log}
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		log.Warn("confirmation enabled but stdin is not a terminal; accepting records automatically")
		return AutoAccept{logger: log}
	}
	return &Interactive{logger: log}
}

// AutoAccept passes every record through unchanged.
type AutoAccept struct {
	logger *slog.Logger
}

func (a AutoAccept) Review(_ context.Context, key string, record metadata.TrackRecord) (metadata.TrackRecord, error) {
	if a.logger != nil {
		a.logger.Debug("record accepted without review", logging.String(logging.FieldFile, key))
	}
	return record, nil
}

// Interactive runs the terminal edit form for each record.
type Interactive struct {
	logger *slog.Logger
}

func (i *Interactive) Review(ctx context.Context, key string, record metadata.TrackRecord) (metadata.TrackRecord, error) {
	program := tea.NewProgram(newFormModel(key, record), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return metadata.TrackRecord{}, fmt.Errorf("review form: %w", err)
	}
	form, ok := final.(formModel)
	if !ok || form.aborted {
		return metadata.TrackRecord{}, ErrAborted
	}
	reviewed := form.record()
	if reviewed != record {
		i.logger.Info("record edited by operator", logging.String(logging.FieldFile, key))
	}
	return reviewed, nil
}
