// Package transport makes local and remote audio collections interchangeable.
//
// A Transport lists recognized audio files under a root, materializes a local
// working copy of one file, and publishes modifications back. The local
// variant works in place; the WebDAV variant downloads into a scoped temp
// directory and uploads on save. Callers depend only on the interface.
package transport
