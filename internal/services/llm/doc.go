// Package llm wraps the chat-completions API used for metadata inference.
//
// The client issues a single JSON-only completion per call and never retries:
// a transient failure surfaces to the pipeline as that file's failure and the
// operator re-runs. Tests substitute the HTTP client via WithHTTPClient.
package llm
