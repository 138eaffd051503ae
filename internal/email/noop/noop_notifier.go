package noop

import (
	"context"
	"log"

	"nefera/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op Notifier that logs dispatched actions to
// stdout. Used in development and tests where no SES credentials exist.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (s *noopNotifier) SendInterviewInvitation(_ context.Context, candidateName string) error {
	log.Printf("[NOOP EMAIL] Interview invitation for %s", candidateName)
	return nil
}

func (s *noopNotifier) SendRejectionNotice(_ context.Context, candidateName string) error {
	log.Printf("[NOOP EMAIL] Rejection notice for %s", candidateName)
	return nil
}
