package port

import "context"

// Notifier dispatches candidate-facing notifications. It is the only side
// effect the orchestrator is permitted to trigger.
type Notifier interface {
	SendInterviewInvitation(ctx context.Context, candidateName string) error
	SendRejectionNotice(ctx context.Context, candidateName string) error
}
