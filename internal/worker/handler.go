package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"paraverse/internal/mailer"
	"paraverse/internal/queue"
)

// Handler processes mail events from the queue.
type Handler struct {
	mailer mailer.Mailer
}

// NewHandler creates a new event handler.
func NewHandler(m mailer.Mailer) *Handler {
	return &Handler{mailer: m}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MailEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventResetRequested:
		err = h.handleResetRequested(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleResetRequested sends the password-reset mail.
func (h *Handler) handleResetRequested(ctx context.Context, event queue.MailEvent) error {
	if event.Email == "" || event.ResetToken == "" {
		return fmt.Errorf("reset event missing email or token")
	}

	if err := h.mailer.SendPasswordReset(event.Email, event.ResetToken); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	log.Printf("[Worker] ResetRequested DONE: mail sent to %s", event.Email)
	return nil
}
