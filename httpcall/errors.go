package httpcall

import "errors"

// Sentinel errors for HTTP calls.
var (
	ErrBaseURL    = errors.New("httpcall: invalid base URL")
	ErrEncodeBody = errors.New("httpcall: encode request body")
	ErrDecodeBody = errors.New("httpcall: decode response body")
	ErrCanceled   = errors.New("httpcall: call canceled")
)
