package notification

import (
	"context"
)

type Kind string

const (
	KindCheckInConfirmed  Kind = "check_in_confirmed"
	KindCheckOutConfirmed Kind = "check_out_confirmed"
	KindAttendanceFlagged Kind = "attendance_flagged"
	KindLeaveSubmitted    Kind = "leave_submitted"
	KindLeaveResolved     Kind = "leave_resolved"
	KindAdvanceSubmitted  Kind = "advance_submitted"
	KindAdvanceResolved   Kind = "advance_resolved"
	KindItemPending       Kind = "item_pending"
	KindPendingDigest     Kind = "pending_digest"
)

// Notification is one push message to a chat.
type Notification struct {
	ChatID  int64
	Kind    Kind
	Message string
}

// Service dispatches push messages to the chat platform. Delivery is
// fire-and-forget from the engine's perspective: a failed send is logged
// by the dispatcher and never rolls back a committed state transition.
type Service interface {
	// Queue enqueues a notification for an employee chat. The returned
	// error only signals a full queue, not a delivery failure.
	Queue(ctx context.Context, n Notification) error

	// QueueAdmin enqueues a notification for the admin channel.
	QueueAdmin(ctx context.Context, kind Kind, message string) error

	// Close drains the queue and stops the workers.
	Close()
}
