// Package remote implements ai.Embedder for the embedding service HTTP API.
//
// Requests are sent as
//
//	POST {base}/embedding/text/{user}
//	{"input": "<prompt>", "model": "<model>"}
//
// with an optional bearer token. The service wraps its answer in an envelope
// that carries its own status code; a non-200 status inside a 2xx response
// is reported as ai.RejectedError, separately from transport failures
// (ai.TransportError) and non-2xx answers (ai.HTTPError).
package remote
