// Package pipeline drives the per-file processing state machine: skip
// detection, load, tag read, inference, review, persistence, tag write, and
// publish. Files are processed sequentially; one file's failure never aborts
// the batch.
package pipeline
