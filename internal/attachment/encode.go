package attachment

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/quotedprintable"
	"strings"
)

// Encode renders body in the given transfer encoding as a single unbroken
// string. An empty encoding means base64.
func Encode(body []byte, encoding string) (string, error) {
	switch strings.ToLower(encoding) {
	case "", "base64":
		return base64.StdEncoding.EncodeToString(body), nil
	case "7bit", "8bit", "binary":
		return string(body), nil
	case "quoted-printable":
		var buf bytes.Buffer
		w := quotedprintable.NewWriter(&buf)
		if _, err := w.Write(body); err != nil {
			return "", err
		}
		if err := w.Close(); err != nil {
			return "", err
		}
		return strings.ReplaceAll(buf.String(), "=\r\n", ""), nil
	default:
		return "", fmt.Errorf("unsupported transfer encoding %q", encoding)
	}
}
