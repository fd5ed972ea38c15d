package message

import "maps"

// Template selects a stored Postmark template. ID takes precedence over
// Alias when both are set.
type Template struct {
	ID        *int64
	Alias     string
	Model     any
	InlineCSS bool
}

func (t *Template) selected() bool {
	return t != nil && (t.ID != nil || t.Alias != "")
}

// Fields are the normalized inputs for one message. Addresses are already
// formatted; headers and attachments are already resolved.
type Fields struct {
	From    string
	To      string
	Cc      string
	Bcc     string
	ReplyTo string

	Subject  string
	HTMLBody string
	TextBody string
	Template *Template

	Headers       []Header
	Attachments   []Attachment
	Tag           string
	Metadata      map[string]string
	MessageStream string
	TrackOpens    *bool
	TrackLinks    string
}

// Builder accumulates a Message field by field. The zero value is ready to
// use.
type Builder struct {
	msg Message
}

// SetTemplate switches the message to template mode. Subject and bodies are
// cleared since Postmark rejects them alongside a template.
func (b *Builder) SetTemplate(t Template) {
	b.msg.Subject = ""
	b.msg.HTMLBody = ""
	b.msg.TextBody = ""

	if t.ID != nil {
		id := *t.ID
		b.msg.TemplateID = &id
		b.msg.TemplateAlias = ""
	} else {
		b.msg.TemplateID = nil
		b.msg.TemplateAlias = t.Alias
	}
	b.msg.TemplateModel = t.Model
	b.msg.InlineCSS = t.InlineCSS
}

// SetTrackOpens records an explicit open tracking choice. false is kept.
func (b *Builder) SetTrackOpens(v bool) {
	b.msg.TrackOpens = &v
}

// SetTrackLinks validates and records the link tracking option.
func (b *Builder) SetTrackLinks(v string) error {
	tl, err := ParseTrackLinks(v)
	if err != nil {
		return err
	}
	b.msg.TrackLinks = tl
	return nil
}

// Message returns the built message.
func (b *Builder) Message() *Message {
	m := b.msg
	return &m
}

// rule populates one output field when its input is present. Rules run in
// table order; the first error stops the build.
type rule struct {
	field   string
	present func(f *Fields) bool
	apply   func(b *Builder, f *Fields) error
}

func stringRule(field string, get func(*Fields) string, set func(*Message, string)) rule {
	return rule{
		field:   field,
		present: func(f *Fields) bool { return get(f) != "" },
		apply: func(b *Builder, f *Fields) error {
			set(&b.msg, get(f))
			return nil
		},
	}
}

// contentRule is a stringRule that is skipped in template mode.
func contentRule(field string, get func(*Fields) string, set func(*Message, string)) rule {
	r := stringRule(field, get, set)
	r.present = func(f *Fields) bool { return !f.Template.selected() && get(f) != "" }
	return r
}

var rules = []rule{
	stringRule("From", func(f *Fields) string { return f.From }, func(m *Message, v string) { m.From = v }),
	stringRule("To", func(f *Fields) string { return f.To }, func(m *Message, v string) { m.To = v }),
	stringRule("Cc", func(f *Fields) string { return f.Cc }, func(m *Message, v string) { m.Cc = v }),
	stringRule("Bcc", func(f *Fields) string { return f.Bcc }, func(m *Message, v string) { m.Bcc = v }),
	stringRule("ReplyTo", func(f *Fields) string { return f.ReplyTo }, func(m *Message, v string) { m.ReplyTo = v }),
	contentRule("Subject", func(f *Fields) string { return f.Subject }, func(m *Message, v string) { m.Subject = v }),
	contentRule("HtmlBody", func(f *Fields) string { return f.HTMLBody }, func(m *Message, v string) { m.HTMLBody = v }),
	contentRule("TextBody", func(f *Fields) string { return f.TextBody }, func(m *Message, v string) { m.TextBody = v }),
	{
		field:   "Template",
		present: func(f *Fields) bool { return f.Template.selected() },
		apply: func(b *Builder, f *Fields) error {
			b.SetTemplate(*f.Template)
			return nil
		},
	},
	{
		field:   "Headers",
		present: func(f *Fields) bool { return len(f.Headers) > 0 },
		apply: func(b *Builder, f *Fields) error {
			b.msg.Headers = append([]Header(nil), f.Headers...)
			return nil
		},
	},
	{
		field:   "Attachments",
		present: func(f *Fields) bool { return len(f.Attachments) > 0 },
		apply: func(b *Builder, f *Fields) error {
			b.msg.Attachments = append([]Attachment(nil), f.Attachments...)
			return nil
		},
	},
	stringRule("Tag", func(f *Fields) string { return f.Tag }, func(m *Message, v string) { m.Tag = v }),
	{
		field:   "Metadata",
		present: func(f *Fields) bool { return len(f.Metadata) > 0 },
		apply: func(b *Builder, f *Fields) error {
			b.msg.Metadata = maps.Clone(f.Metadata)
			return nil
		},
	},
	stringRule("MessageStream", func(f *Fields) string { return f.MessageStream }, func(m *Message, v string) { m.MessageStream = v }),
	{
		field:   "TrackOpens",
		present: func(f *Fields) bool { return f.TrackOpens != nil },
		apply: func(b *Builder, f *Fields) error {
			b.SetTrackOpens(*f.TrackOpens)
			return nil
		},
	},
	{
		field:   "TrackLinks",
		present: func(f *Fields) bool { return f.TrackLinks != "" },
		apply: func(b *Builder, f *Fields) error {
			return b.SetTrackLinks(f.TrackLinks)
		},
	},
}

// Apply runs every field rule against f, setting only the fields f has.
func (b *Builder) Apply(f Fields) error {
	for _, r := range rules {
		if !r.present(&f) {
			continue
		}
		if err := r.apply(b, &f); err != nil {
			return err
		}
	}
	return nil
}

// Build applies f to a fresh Builder and returns the resulting message.
func Build(f Fields) (*Message, error) {
	var b Builder
	if err := b.Apply(f); err != nil {
		return nil, err
	}
	return b.Message(), nil
}
