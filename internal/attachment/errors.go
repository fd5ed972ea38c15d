package attachment

import (
	"errors"
	"fmt"
)

const codeInvalid = "invalid"

var (
	ErrNoContent          = errors.New("descriptor has no content source")
	ErrTooLarge           = errors.New("attachment exceeds size limit")
	ErrStorageUnavailable = errors.New("storage reference without a configured storage backend")
	ErrFileAccessDisabled = errors.New("file access is disabled")
	ErrURLAccessDisabled  = errors.New("url access is disabled")
)

// ResolutionError reports a descriptor whose content could not be read,
// fetched or encoded.
type ResolutionError struct {
	Index  int
	Source string
	Err    error
}

func newResolutionError(index int, d Descriptor, err error) *ResolutionError {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re
	}
	return &ResolutionError{Index: index, Source: describe(d), Err: err}
}

func (e *ResolutionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("attachment %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("attachment %d (%s): %v", e.Index, e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ResolutionError) ErrorCode() string {
	return codeInvalid
}

// describe names a descriptor for error messages without echoing content.
func describe(d Descriptor) string {
	switch {
	case d.Filename != "":
		return d.Filename
	case d.Path != "" && !isDataURI(d.Path):
		return d.Path
	case d.Href != "":
		return d.Href
	default:
		return ""
	}
}
