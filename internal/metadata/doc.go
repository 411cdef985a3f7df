// Package metadata defines the track and album records shared by the store,
// the tag codecs, and the inference adapter.
//
// A TrackRecord is keyed by the file's original relative path and carries the
// descriptive fields written back into the audio file. AlbumEntry identifies a
// catalog album by its (name, artist) pair; the catalog exists so inference can
// snap new results onto known albums instead of minting near-duplicates.
package metadata
