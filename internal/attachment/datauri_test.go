package attachment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantType string
		wantData string
	}{
		{name: "base64", in: "data:text/plain;base64,aGVsbG8gd29ybGQ=", wantType: "text/plain", wantData: "hello world"},
		{name: "percent encoded", in: "data:text/html,%3Cb%3Ehi%3C%2Fb%3E", wantType: "text/html", wantData: "<b>hi</b>"},
		{name: "default media type", in: "data:,plain", wantType: "text/plain", wantData: "plain"},
		{name: "parameters dropped", in: "data:text/plain;charset=utf-8;base64,aGk=", wantType: "text/plain", wantData: "hi"},
		{name: "base64 without media type", in: "data:;base64,aGk=", wantType: "text/plain", wantData: "hi"},
		{name: "unpadded base64", in: "data:text/plain;base64,aGk", wantType: "text/plain", wantData: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDataURI(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got.MediaType)
			assert.Equal(t, tt.wantData, string(got.Data))
		})
	}
}

func TestParseDataURI_Malformed(t *testing.T) {
	for _, in := range []string{"data:text/plain", "text/plain,abc", "data:;base64,***"} {
		t.Run(in, func(t *testing.T) {
			_, err := parseDataURI(in)
			assert.ErrorIs(t, err, errMalformedDataURI)
		})
	}
}
