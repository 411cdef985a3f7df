// Package inference turns a filename and any existing tags into a proposed
// TrackRecord by querying an injected completion client.
//
// The request encodes the filename, existing tag values as hints, the full
// known album catalog, and a fixed set of naming rules. The response is
// parsed strictly as JSON; anything else is an inference failure. Parsed
// albums are snapped onto close catalog matches so near-duplicate identities
// never reach the store.
package inference
