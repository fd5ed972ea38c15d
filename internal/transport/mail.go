package transport

import "github.com/dukerupert/postmark-transport/internal/attachment"

// Mail is one outbound mail as a caller describes it. Keys follow the
// nodemailer message fields so JSON produced for nodemailer decodes as is.
//
// Address fields accept a string (one or more comma or semicolon separated
// addresses), an address.Address, a {"name","address"} object, or a list
// of any of these. From and ReplyTo keep only the first address.
type Mail struct {
	From    any `json:"from,omitempty"`
	To      any `json:"to,omitempty"`
	Cc      any `json:"cc,omitempty"`
	Bcc     any `json:"bcc,omitempty"`
	ReplyTo any `json:"replyTo,omitempty"`

	Subject string `json:"subject,omitempty"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`

	// Headers is a map of name to value(s) or a list of {"key","value"}.
	Headers     any                     `json:"headers,omitempty"`
	Attachments []attachment.Descriptor `json:"attachments,omitempty"`

	Tag           string            `json:"tag,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	MessageStream string            `json:"messageStream,omitempty"`
	TrackOpens    *bool             `json:"trackOpens,omitempty"`
	TrackLinks    string            `json:"trackLinks,omitempty"`

	TemplateID    *int64 `json:"templateId,omitempty"`
	TemplateAlias string `json:"templateAlias,omitempty"`
	TemplateModel any    `json:"templateModel,omitempty"`
	InlineCSS     *bool  `json:"inlineCss,omitempty"`
}
