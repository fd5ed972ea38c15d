// Package message defines the outbound Postmark message record and the
// builder that fills it from normalized mail fields.
package message

// Message is the request body for Postmark's email endpoints. Every optional
// field uses omitempty: an absent field means "unset" to Postmark, so an
// empty value must never be sent in its place.
type Message struct {
	From    string `json:"From,omitempty"`
	To      string `json:"To,omitempty"`
	Cc      string `json:"Cc,omitempty"`
	Bcc     string `json:"Bcc,omitempty"`
	ReplyTo string `json:"ReplyTo,omitempty"`

	Subject  string `json:"Subject,omitempty"`
	HTMLBody string `json:"HtmlBody,omitempty"`
	TextBody string `json:"TextBody,omitempty"`

	TemplateID    *int64 `json:"TemplateId,omitempty"`
	TemplateAlias string `json:"TemplateAlias,omitempty"`
	TemplateModel any    `json:"TemplateModel,omitempty"`
	InlineCSS     bool   `json:"InlineCss,omitempty"`

	Headers       []Header          `json:"Headers,omitempty"`
	Attachments   []Attachment      `json:"Attachments,omitempty"`
	Tag           string            `json:"Tag,omitempty"`
	Metadata      map[string]string `json:"Metadata,omitempty"`
	MessageStream string            `json:"MessageStream,omitempty"`
	TrackOpens    *bool             `json:"TrackOpens,omitempty"`
	TrackLinks    TrackLinks        `json:"TrackLinks,omitempty"`
}

// IsTemplate reports whether the message is sent through a Postmark template.
func (m *Message) IsTemplate() bool {
	return m.TemplateID != nil || m.TemplateAlias != ""
}

// Header is a single custom header.
type Header struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Attachment is a file attached to the message. Content is the encoded body
// as one unbroken token. ContentID is set only for inline (cid:) parts.
type Attachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
	ContentID   string `json:"ContentID,omitempty"`
}
