package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks authentication, network, or I/O failures against the
	// local or remote file collection.
	ErrTransport = errors.New("transport error")
	// ErrFormat marks an unsupported or corrupt tag block, including writes
	// attempted against a read-only format.
	ErrFormat = errors.New("format error")
	// ErrInference marks a malformed or non-conforming inference response.
	ErrInference = errors.New("inference error")
	// ErrStore marks an unreadable or unwritable metadata store file.
	ErrStore = errors.New("store error")
	// ErrSync marks a clone, pull, or push failure against the sync remote.
	ErrSync = errors.New("sync error")
	// ErrLockContention marks a run-scoped or store lock that is already held.
	ErrLockContention = errors.New("lock contention")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether the error must abort the run before any file is
// processed. Only lock contention qualifies here; a list-time transport
// failure is fatal by position, which the orchestrator decides itself.
func Fatal(err error) bool {
	return errors.Is(err, ErrLockContention)
}

// Class returns the taxonomy name for a tagged error, or "unknown" when the
// error carries no marker. Used for run summary reporting.
func Class(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrInference):
		return "inference"
	case errors.Is(err, ErrStore):
		return "store"
	case errors.Is(err, ErrSync):
		return "sync"
	case errors.Is(err, ErrLockContention):
		return "lock"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
