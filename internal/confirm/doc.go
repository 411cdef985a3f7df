// Package confirm presents inferred track metadata to the operator for
// review before it is persisted. When confirmation is disabled, or stdin is
// not a terminal, records pass through unchanged.
package confirm
