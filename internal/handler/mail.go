package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/transport"
)

//go:generate mockgen -source=mail.go -destination=mock_sender.go -package=handler

// Sender is the part of the transport the HTTP host needs.
type Sender interface {
	Send(ctx context.Context, mail *transport.Mail) (*transport.SendResult, error)
	SendBatch(ctx context.Context, mails []*transport.Mail) (*transport.SendResult, error)
}

// MailHandler serves the send endpoints.
type MailHandler struct {
	sender Sender
}

// NewMailHandler creates a MailHandler backed by sender.
func NewMailHandler(sender Sender) *MailHandler {
	return &MailHandler{sender: sender}
}

// Send handles POST /send with one mail as the JSON body.
func (h *MailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var mail transport.Mail
	if err := decodeBody(r, &mail); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	res, err := h.sender.Send(r.Context(), &mail)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SendBatch handles POST /batch with a JSON array of mails.
func (h *MailHandler) SendBatch(w http.ResponseWriter, r *http.Request) {
	var mails []*transport.Mail
	if err := decodeBody(r, &mails); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	for i, m := range mails {
		if m == nil {
			ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "handler.batch", "mail %d is null", i))
			return
		}
	}

	res, err := h.sender.SendBatch(r.Context(), mails)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, v any) error {
	const op = "handler.decode"

	if r.Body == nil {
		return domain.Invalid(op, "request body is required")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.WrapError(err, domain.ETOOLARGE, op, "request body too large")
		}
		return domain.WrapError(err, domain.EINVALID, op, "request body is not valid mail JSON")
	}
	if dec.More() {
		return domain.Invalid(op, "request body must hold a single JSON value")
	}
	return nil
}
