// Package tags reads and writes the embedded descriptive fields of audio
// files.
//
// Codecs are selected by file extension. MP3 files get full read/write
// support through ID3v2 frames, including the processed-marker comment frame.
// FLAC files get read/write support through vorbis comments, with the marker
// merged into the COMMENT field. MP4/M4A and Ogg containers are read-only;
// attempting to write them reports the format error class. Reading never
// fails on missing tags; absent fields come back empty.
package tags
