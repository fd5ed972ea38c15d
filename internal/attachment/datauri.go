package attachment

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var errMalformedDataURI = errors.New("malformed data URI")

type dataURI struct {
	MediaType string
	Data      []byte
}

func isDataURI(s string) bool {
	return len(s) >= 5 && strings.EqualFold(s[:5], "data:")
}

// parseDataURI parses data:[<mediatype>][;base64],<data>. A missing media
// type defaults to text/plain. Media type parameters are dropped.
func parseDataURI(s string) (*dataURI, error) {
	if !isDataURI(s) {
		return nil, errMalformedDataURI
	}

	meta, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return nil, errMalformedDataURI
	}

	params := strings.Split(meta, ";")
	isBase64 := false
	if n := len(params); n > 0 && strings.EqualFold(params[n-1], "base64") {
		isBase64 = true
		params = params[:n-1]
	}

	mediaType := ""
	if len(params) > 0 {
		mediaType = strings.TrimSpace(params[0])
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(stripWhitespace(payload))
		if err != nil {
			// Some producers emit unpadded base64.
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(stripWhitespace(payload), "="))
			if err != nil {
				return nil, errMalformedDataURI
			}
		}
		return &dataURI{MediaType: mediaType, Data: data}, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, errMalformedDataURI
	}
	return &dataURI{MediaType: mediaType, Data: []byte(text)}, nil
}
