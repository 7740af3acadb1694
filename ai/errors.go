package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmbeddingTransport indicates no response was received from the embedding service.
	ErrEmbeddingTransport = errors.New("embedding transport error")

	// ErrEmbeddingHTTP indicates the embedding service answered with a non-2xx HTTP status.
	ErrEmbeddingHTTP = errors.New("embedding http error")

	// ErrEmbeddingRejected indicates the response body reported a non-success status.
	ErrEmbeddingRejected = errors.New("embedding rejected")

	// ErrInvalidResponse indicates a 2xx response that could not be decoded
	// or carried no embedding.
	ErrInvalidResponse = errors.New("invalid embedding response")

	// ErrEmptyText indicates an embedding was requested for empty text.
	ErrEmptyText = errors.New("text cannot be empty")
)

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("embedding request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrEmbeddingTransport }

// HTTPError is returned when the service answered with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("embedding service returned HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool { return target == ErrEmbeddingHTTP }

// RejectedError is returned when a 2xx response carries a non-success status
// in its body.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("embedding rejected with status %d", e.Status)
	}
	return fmt.Sprintf("embedding rejected with status %d: %s", e.Status, e.Message)
}

func (e *RejectedError) Is(target error) bool { return target == ErrEmbeddingRejected }

// Classify names the failure class of an embedding error for diagnostics.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmbeddingTransport):
		return "transport"
	case errors.Is(err, ErrEmbeddingHTTP):
		return "http"
	case errors.Is(err, ErrEmbeddingRejected):
		return "rejected"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "unknown"
	}
}
