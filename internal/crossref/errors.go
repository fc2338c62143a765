package crossref

import "errors"

// Common errors returned by the CrossRef client.
var (
	// ErrNotFound indicates no work is registered for the DOI.
	ErrNotFound = errors.New("DOI not found in CrossRef")

	// ErrTransport indicates a network or HTTP-level failure. The lookup
	// is abandoned; nothing is retried automatically.
	ErrTransport = errors.New("CrossRef transport error")

	// ErrMalformedResponse indicates the response envelope did not have
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed CrossRef response")
)
