// Package syncrepo synchronizes the metadata store files with a replicated
// git remote.
//
// One working clone per configured remote is kept under the clone directory.
// A run holds the coordinator's lock for the whole pull → process → push
// span; acquisition is fail-fast, so a second concurrent run aborts with the
// lock-contention class instead of blocking. Pull and push failures are
// recoverable: the run proceeds on the existing clone (degraded) and local
// state stays valid for the next attempt.
package syncrepo
