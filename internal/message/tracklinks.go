package message

import (
	"slices"
	"strings"

	"github.com/dukerupert/postmark-transport/internal/domain"
)

// TrackLinks is Postmark's link tracking option.
type TrackLinks string

const (
	TrackLinksNone        TrackLinks = "None"
	TrackLinksHTMLAndText TrackLinks = "HtmlAndText"
	TrackLinksHTMLOnly    TrackLinks = "HtmlOnly"
	TrackLinksTextOnly    TrackLinks = "TextOnly"
)

// trackLinksValues is the declared order, used in error messages.
var trackLinksValues = []TrackLinks{
	TrackLinksNone,
	TrackLinksHTMLAndText,
	TrackLinksHTMLOnly,
	TrackLinksTextOnly,
}

// ParseTrackLinks validates value against the recognized tokens. Matching
// is exact.
func ParseTrackLinks(value string) (TrackLinks, error) {
	v := TrackLinks(value)
	if slices.Contains(trackLinksValues, v) {
		return v, nil
	}

	valid := make([]string, len(trackLinksValues))
	for i, t := range trackLinksValues {
		valid[i] = string(t)
	}
	return "", &InvalidEnumValueError{Option: "link tracking", Value: value, Valid: valid}
}

// InvalidEnumValueError is returned when an enumerated option holds a value
// outside its recognized set.
type InvalidEnumValueError struct {
	Option string
	Value  string
	Valid  []string
}

func (e *InvalidEnumValueError) Error() string {
	return `"` + e.Value + `" is wrong value for ` + e.Option + ". Valid values are: " + strings.Join(e.Valid, ", ")
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *InvalidEnumValueError) ErrorCode() string {
	return domain.EINVALID
}
