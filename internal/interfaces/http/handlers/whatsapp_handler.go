package handlers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/turtacn/Joana-OrderBot/internal/application/conversation"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/messaging/whatsapp"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// Deliverer sends replies to a WhatsApp user.
type Deliverer interface {
	Deliver(ctx context.Context, to string, replies []whatsapp.Reply) error
}

// WhatsAppHandler receives Cloud API webhooks. Notifications are
// acknowledged at once and processed in the background.
type WhatsAppHandler struct {
	svc         conversation.Service
	sender      Deliverer
	verifyToken string
	timeout     time.Duration
	logger      logging.Logger
	wg          sync.WaitGroup
}

func NewWhatsAppHandler(svc conversation.Service, sender Deliverer, verifyToken string, logger logging.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		svc:         svc,
		sender:      sender,
		verifyToken: verifyToken,
		timeout:     time.Minute,
		logger:      logger.Named("whatsapp"),
	}
}

// Verify handles the GET subscription handshake.
func (h *WhatsAppHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challenge, ok := whatsapp.VerifySubscription(q.Get("hub.mode"), q.Get("hub.verify_token"), q.Get("hub.challenge"), h.verifyToken)
	if !ok {
		h.logger.Warn("webhook verification rejected", logging.String("mode", q.Get("hub.mode")))
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, challenge)
}

// Receive handles POST notifications.
func (h *WhatsAppHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeAppError(w, h.logger, errors.Wrap(err, errors.CodeInvalidParam, "failed to read webhook body"))
		return
	}
	msgs, err := whatsapp.ParseNotification(body)
	if err != nil {
		h.logger.Warn("unreadable webhook", logging.Err(err))
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
	if len(msgs) == 0 {
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		for _, m := range msgs {
			h.process(ctx, m)
		}
	}()
}

func (h *WhatsAppHandler) process(ctx context.Context, m whatsapp.Inbound) {
	log := h.logger.With(logging.String("from", m.From), logging.String("message_id", m.MessageID))
	res, err := h.svc.HandleTurn(ctx, &conversation.TurnInput{
		SessionID: whatsapp.SessionID(m.From),
		Text:      m.Text,
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeDuplicateTurn) {
			log.Debug("duplicate message ignored")
			return
		}
		log.Error("turn failed", logging.Err(err))
		return
	}
	if err := h.sender.Deliver(ctx, m.From, toReplies(res.Messages)); err != nil {
		log.Error("reply delivery failed", logging.Err(err))
	}
}

// Wait blocks until in-flight notifications are processed.
func (h *WhatsAppHandler) Wait() {
	h.wg.Wait()
}

func toReplies(msgs []conversation.Message) []whatsapp.Reply {
	out := make([]whatsapp.Reply, 0, len(msgs))
	for _, m := range msgs {
		r := whatsapp.Reply{Text: m.Text}
		for _, b := range m.Buttons {
			r.Buttons = append(r.Buttons, whatsapp.Button{ID: b.ID, Title: b.Title})
		}
		out = append(out, r)
	}
	return out
}
