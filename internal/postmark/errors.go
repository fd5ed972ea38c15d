package postmark

import (
	"errors"
	"fmt"
)

const codeUpstream = "upstream"

// ErrResultCountMismatch is reported when a batch response does not carry
// exactly one result per submitted message.
var ErrResultCountMismatch = errors.New("postmark: result count does not match message count")

// TransportError wraps every failure of a Postmark call: network errors,
// API errors and undecodable responses.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("postmark %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *TransportError) ErrorCode() string {
	return codeUpstream
}

// APIError is a non-2xx Postmark response.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"ErrorCode"`
	Message    string `json:"Message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("postmark API error (status %d, code %d): %s", e.StatusCode, e.ErrorCode, e.Message)
}
