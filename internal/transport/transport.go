// Package transport sends mail descriptions through Postmark and reports
// the per-message verdicts.
package transport

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/postmark-transport/internal/address"
	"github.com/dukerupert/postmark-transport/internal/attachment"
	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/header"
	"github.com/dukerupert/postmark-transport/internal/message"
	"github.com/dukerupert/postmark-transport/internal/postmark"
	"github.com/dukerupert/postmark-transport/internal/telemetry"
)

// Version is the transport version reported to hosts. Set at build time
// with -ldflags "-X .../internal/transport.Version=...".
var Version = "dev"

const name = "Postmark"

// Provider operation names, used in logs and metric labels.
const (
	opSend             = "sendEmail"
	opSendWithTemplate = "sendEmailWithTemplate"
	opSendBatch        = "sendEmailBatch"
)

// Auth carries the Postmark server token.
type Auth struct {
	APIKey string `json:"apiKey" validate:"required"`
}

// Options configure a Transport. When Client is set, Auth and
// ProviderOptions are not used.
type Options struct {
	Auth            Auth
	ProviderOptions postmark.Options

	Client          postmark.Client
	ContentResolver attachment.ContentResolver
	Logger          *zerolog.Logger
	Metrics         *telemetry.TransportMetrics
}

// Transport normalizes mail into Postmark messages and sends them. It holds
// no per-call state and is safe for concurrent use.
type Transport struct {
	client      postmark.Client
	attachments *attachment.Resolver
	logger      zerolog.Logger
	metrics     *telemetry.TransportMetrics
}

// New creates a Transport.
func New(opts Options) (*Transport, error) {
	client := opts.Client
	if client == nil {
		if err := domain.ValidateStruct("transport.new", opts.Auth); err != nil {
			return nil, err
		}
		client = postmark.NewHTTPClient(opts.Auth.APIKey, opts.ProviderOptions)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Transport{
		client:      client,
		attachments: attachment.NewResolver(opts.ContentResolver),
		logger:      logger.With().Str("component", "transport").Logger(),
		metrics:     opts.Metrics,
	}, nil
}

// Name identifies the transport to mail hosts.
func (t *Transport) Name() string { return name }

// Version reports the transport version.
func (t *Transport) Version() string { return Version }

// CanSendBatch reports that SendBatch is supported.
func (t *Transport) CanSendBatch() bool { return true }

// Send normalizes mail and submits it with a single Postmark call. Template
// mail goes to the with-template endpoint.
func (t *Transport) Send(ctx context.Context, mail *Mail) (*SendResult, error) {
	log := t.log(ctx)

	msg, err := t.build(ctx, mail)
	if err != nil {
		t.metrics.RecordFailure(opSend, telemetry.StageNormalize)
		log.Debug().Err(err).Msg("mail normalization failed")
		return nil, err
	}

	op, call := opSend, t.client.SendEmail
	if msg.IsTemplate() {
		op, call = opSendWithTemplate, t.client.SendEmailWithTemplate
	}

	start := time.Now()
	res, err := call(ctx, msg)
	t.metrics.ObserveProviderLatency(op, time.Since(start))
	if err != nil {
		t.metrics.RecordFailure(op, telemetry.StageProvider)
		log.Warn().Err(err).Str("operation", op).Msg("postmark call failed")
		return nil, err
	}

	var results []postmark.Result
	if res != nil {
		results = []postmark.Result{*res}
	}
	return t.finish(log, op, results), nil
}

// SendBatch normalizes every mail, in order, then submits them all with one
// Postmark batch call. Batch sending is deprecated in the nodemailer
// transport contract and kept for hosts that still use it.
func (t *Transport) SendBatch(ctx context.Context, mails []*Mail) (*SendResult, error) {
	log := t.log(ctx)

	if len(mails) == 0 {
		t.metrics.RecordFailure(opSendBatch, telemetry.StageNormalize)
		return nil, domain.Invalid("transport.sendBatch", "batch contains no mail")
	}

	msgs := make([]*message.Message, 0, len(mails))
	for i, mail := range mails {
		msg, err := t.build(ctx, mail)
		if err != nil {
			t.metrics.RecordFailure(opSendBatch, telemetry.StageNormalize)
			log.Debug().Err(err).Int("index", i).Msg("mail normalization failed")
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	t.metrics.ObserveBatchSize(len(msgs))

	start := time.Now()
	results, err := t.client.SendEmailBatch(ctx, msgs)
	t.metrics.ObserveProviderLatency(opSendBatch, time.Since(start))
	if err == nil && len(results) != len(msgs) {
		err = &postmark.TransportError{Op: opSendBatch, Err: postmark.ErrResultCountMismatch}
	}
	if err != nil {
		t.metrics.RecordFailure(opSendBatch, telemetry.StageProvider)
		log.Warn().Err(err).Int("batch_size", len(msgs)).Int("results", len(results)).Msg("postmark batch call failed")
		return nil, err
	}

	return t.finish(log, opSendBatch, results), nil
}

// SendAsync runs Send in the background. cb, when non-nil, receives the
// outcome after the returned Future settles.
func (t *Transport) SendAsync(ctx context.Context, mail *Mail, cb Callback) *Future {
	f := newFuture()
	go run(f, cb, func() (*SendResult, error) { return t.Send(ctx, mail) })
	return f
}

// SendBatchAsync runs SendBatch in the background, like SendAsync.
func (t *Transport) SendBatchAsync(ctx context.Context, mails []*Mail, cb Callback) *Future {
	f := newFuture()
	go run(f, cb, func() (*SendResult, error) { return t.SendBatch(ctx, mails) })
	return f
}

func (t *Transport) finish(log *zerolog.Logger, op string, results []postmark.Result) *SendResult {
	out := partition(results)
	t.metrics.RecordResult(op, len(out.Accepted), len(out.Rejected))

	log.Info().
		Str("operation", op).
		Str("message_id", out.MessageID).
		Int("accepted", len(out.Accepted)).
		Int("rejected", len(out.Rejected)).
		Msg("postmark call completed")
	return out
}

// build turns one mail into a Postmark message. Headers are parsed before
// attachments are read, so a bad header fails without touching I/O.
func (t *Transport) build(ctx context.Context, mail *Mail) (*message.Message, error) {
	if mail == nil {
		return nil, domain.Invalid("transport.build", "mail is nil")
	}

	headers, err := header.Parse(mail.Headers)
	if err != nil {
		return nil, err
	}

	attachments, err := t.attachments.Resolve(ctx, mail.Attachments)
	if err != nil {
		return nil, err
	}

	var tmpl *message.Template
	if mail.TemplateID != nil || mail.TemplateAlias != "" {
		tmpl = &message.Template{
			ID:        mail.TemplateID,
			Alias:     mail.TemplateAlias,
			Model:     mail.TemplateModel,
			InlineCSS: mail.InlineCSS != nil && *mail.InlineCSS,
		}
	}

	return message.Build(message.Fields{
		From:          address.FormatFirst(mail.From),
		To:            address.FormatList(mail.To),
		Cc:            address.FormatList(mail.Cc),
		Bcc:           address.FormatList(mail.Bcc),
		ReplyTo:       address.FormatFirst(mail.ReplyTo),
		Subject:       mail.Subject,
		HTMLBody:      mail.HTML,
		TextBody:      mail.Text,
		Template:      tmpl,
		Headers:       headers,
		Attachments:   attachments,
		Tag:           mail.Tag,
		Metadata:      mail.Metadata,
		MessageStream: mail.MessageStream,
		TrackOpens:    mail.TrackOpens,
		TrackLinks:    mail.TrackLinks,
	})
}

// log prefers a request-scoped logger carried on ctx.
func (t *Transport) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &t.logger
}
