// Package store persists track records and the album catalog as flat CSV
// files.
//
// Both entity types support get, contains, and full-record upsert. Every
// upsert rewrites the affected file through a temp file in the same directory
// followed by an atomic rename, so readers never observe a partially written
// store even across process interruption. An advisory lock on the data
// directory keeps two local runs from interleaving rewrites; acquisition is
// fail-fast.
package store
