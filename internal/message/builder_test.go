package message_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBuild_ContentMessage(t *testing.T) {
	msg, err := message.Build(message.Fields{
		From:          "a@b.org",
		To:            `"Ann" <ann@example.com>`,
		Subject:       "Hi",
		HTMLBody:      "<p>Hi</p>",
		TextBody:      "Hi",
		Tag:           "welcome",
		MessageStream: "outbound",
		Metadata:      map[string]string{"order": "42"},
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.org", msg.From)
	assert.Equal(t, `"Ann" <ann@example.com>`, msg.To)
	assert.Equal(t, "Hi", msg.Subject)
	assert.Equal(t, "<p>Hi</p>", msg.HTMLBody)
	assert.Equal(t, "Hi", msg.TextBody)
	assert.Equal(t, "welcome", msg.Tag)
	assert.Equal(t, "outbound", msg.MessageStream)
	assert.Equal(t, map[string]string{"order": "42"}, msg.Metadata)
	assert.False(t, msg.IsTemplate())
}

func TestBuild_EmptyFieldsOmitted(t *testing.T) {
	msg, err := message.Build(message.Fields{From: "a@b.org", To: "c@d.org"})
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"From":"a@b.org","To":"c@d.org"}`, string(raw))
}

func TestBuild_TemplateModeDropsContent(t *testing.T) {
	tests := []struct {
		name     string
		template message.Template
		wantJSON string
	}{
		{
			name:     "by id",
			template: message.Template{ID: ptr(int64(123)), Model: map[string]any{"name": "Ann"}},
			wantJSON: `{"From":"a@b.org","TemplateId":123,"TemplateModel":{"name":"Ann"}}`,
		},
		{
			name:     "by alias with inline css",
			template: message.Template{Alias: "welcome", InlineCSS: true},
			wantJSON: `{"From":"a@b.org","TemplateAlias":"welcome","InlineCss":true}`,
		},
		{
			name:     "id wins over alias",
			template: message.Template{ID: ptr(int64(7)), Alias: "ignored"},
			wantJSON: `{"From":"a@b.org","TemplateId":7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := tt.template
			msg, err := message.Build(message.Fields{
				From:     "a@b.org",
				Subject:  "dropped",
				HTMLBody: "<p>dropped</p>",
				TextBody: "dropped",
				Template: &tmpl,
			})
			require.NoError(t, err)
			assert.True(t, msg.IsTemplate())

			raw, err := json.Marshal(msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(raw))
		})
	}
}

func TestBuild_EmptyTemplateIsContentMode(t *testing.T) {
	msg, err := message.Build(message.Fields{Subject: "kept", Template: &message.Template{}})
	require.NoError(t, err)
	assert.False(t, msg.IsTemplate())
	assert.Equal(t, "kept", msg.Subject)
}

func TestBuild_TrackOpens(t *testing.T) {
	tests := []struct {
		name     string
		in       *bool
		wantJSON string
	}{
		{name: "absent", in: nil, wantJSON: `{}`},
		{name: "explicit false is sent", in: ptr(false), wantJSON: `{"TrackOpens":false}`},
		{name: "true", in: ptr(true), wantJSON: `{"TrackOpens":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := message.Build(message.Fields{TrackOpens: tt.in})
			require.NoError(t, err)

			raw, err := json.Marshal(msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(raw))
		})
	}
}

func TestBuild_TrackLinks(t *testing.T) {
	for _, v := range []string{"None", "HtmlAndText", "HtmlOnly", "TextOnly"} {
		t.Run(v, func(t *testing.T) {
			msg, err := message.Build(message.Fields{TrackLinks: v})
			require.NoError(t, err)
			assert.Equal(t, message.TrackLinks(v), msg.TrackLinks)
		})
	}

	t.Run("invalid value", func(t *testing.T) {
		msg, err := message.Build(message.Fields{TrackLinks: "foo"})
		require.Error(t, err)
		assert.Nil(t, msg)

		var enumErr *message.InvalidEnumValueError
		require.True(t, errors.As(err, &enumErr))
		assert.Equal(t, "foo", enumErr.Value)
		assert.Equal(t,
			`"foo" is wrong value for link tracking. Valid values are: None, HtmlAndText, HtmlOnly, TextOnly`,
			err.Error(),
		)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		_, err := message.Build(message.Fields{TrackLinks: "htmlonly"})
		assert.Error(t, err)
	})
}

func TestBuild_HeadersAndAttachmentsCopied(t *testing.T) {
	headers := []message.Header{{Name: "X-A", Value: "1"}}
	attachments := []message.Attachment{{Name: "a.txt", Content: "aGk=", ContentType: "text/plain"}}

	msg, err := message.Build(message.Fields{Headers: headers, Attachments: attachments})
	require.NoError(t, err)

	headers[0].Value = "changed"
	attachments[0].Name = "changed"
	assert.Equal(t, "1", msg.Headers[0].Value)
	assert.Equal(t, "a.txt", msg.Attachments[0].Name)
}

func TestAttachment_ContentIDOmittedWhenEmpty(t *testing.T) {
	raw, err := json.Marshal(message.Attachment{Name: "a.txt", Content: "aGk=", ContentType: "text/plain"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name":"a.txt","Content":"aGk=","ContentType":"text/plain"}`, string(raw))

	raw, err = json.Marshal(message.Attachment{Name: "logo.png", Content: "AA==", ContentType: "image/png", ContentID: "cid:logo"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name":"logo.png","Content":"AA==","ContentType":"image/png","ContentID":"cid:logo"}`, string(raw))
}

func TestBuilder_SetTemplateClearsContent(t *testing.T) {
	var b message.Builder
	require.NoError(t, b.Apply(message.Fields{
		To:       "a@b.org",
		Subject:  "s",
		HTMLBody: "<p>h</p>",
		TextBody: "t",
	}))
	before := b.Message()
	assert.Equal(t, "s", before.Subject)
	assert.Equal(t, "<p>h</p>", before.HTMLBody)
	assert.Equal(t, "t", before.TextBody)

	b.SetTemplate(message.Template{Alias: "welcome"})
	b.SetTrackOpens(false)
	require.NoError(t, b.SetTrackLinks("HtmlOnly"))

	got := b.Message()
	assert.Equal(t, "welcome", got.TemplateAlias)
	assert.Equal(t, "a@b.org", got.To)
	assert.Empty(t, got.Subject)
	assert.Empty(t, got.HTMLBody)
	assert.Empty(t, got.TextBody)
	require.NotNil(t, got.TrackOpens)
	assert.False(t, *got.TrackOpens)
	assert.Equal(t, message.TrackLinksHTMLOnly, got.TrackLinks)
}
