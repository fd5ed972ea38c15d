// Package attachment turns attachment descriptors into Postmark attachment
// records.
package attachment

import (
	"context"
	"io"

	"github.com/dukerupert/postmark-transport/internal/message"
)

// Descriptor describes one attachment as a caller hands it in. Exactly one
// content source is used, in this order: Reader, Content, Path, Href.
type Descriptor struct {
	Filename string `json:"filename,omitempty"`

	// Content is inline content, decoded according to Encoding
	// ("base64", "hex", or empty for plain text).
	Content  string `json:"content,omitempty"`
	Encoding string `json:"encoding,omitempty"`

	// Path is a filesystem path, an http(s) URL, a data: URI or a
	// storage://<key> reference.
	Path string `json:"path,omitempty"`
	Href string `json:"href,omitempty"`

	ContentType             string `json:"contentType,omitempty"`
	ContentTransferEncoding string `json:"contentTransferEncoding,omitempty"`
	CID                     string `json:"cid,omitempty"`

	Reader io.Reader `json:"-"`
}

// Content is a descriptor resolved into bytes and metadata.
type Content struct {
	Filename         string
	Body             []byte
	ContentType      string
	TransferEncoding string
	CID              string
}

// ContentResolver reads the bytes behind a descriptor. index is the
// descriptor's zero-based position, used for default filenames.
type ContentResolver interface {
	ResolveContent(ctx context.Context, d Descriptor, index int) (*Content, error)
}

// Resolver maps descriptors to wire attachments through a ContentResolver.
type Resolver struct {
	content ContentResolver
}

// NewResolver returns a Resolver. A nil ContentResolver uses a Composer
// with default settings.
func NewResolver(cr ContentResolver) *Resolver {
	if cr == nil {
		cr = &Composer{}
	}
	return &Resolver{content: cr}
}

// Resolve resolves descriptors one at a time, in order. The first failure
// stops resolution and is returned as a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, descriptors []Descriptor) ([]message.Attachment, error) {
	out := make([]message.Attachment, 0, len(descriptors))
	for i, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return nil, newResolutionError(i, d, err)
		}

		c, err := r.content.ResolveContent(ctx, d, i)
		if err != nil {
			return nil, newResolutionError(i, d, err)
		}

		body, err := Encode(c.Body, c.TransferEncoding)
		if err != nil {
			return nil, newResolutionError(i, d, err)
		}

		out = append(out, message.Attachment{
			Name:        c.Filename,
			Content:     body,
			ContentType: c.ContentType,
			ContentID:   c.CID,
		})
	}
	return out, nil
}
