// Package services defines the shared failure taxonomy for pipeline
// collaborators.
//
// Every error that crosses a component boundary is tagged with one of the
// exported sentinel markers so the orchestrator can classify it: fatal
// conditions abort the run before any file is touched, everything else is a
// per-file failure that is logged, counted, and skipped past.
package services
