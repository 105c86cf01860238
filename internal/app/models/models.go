package models

// ApprovalStatus is the single access-gating flag kept per account
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// allowedTransitions lists every legal status change. pending -> pending is a
// resubmission and is accepted as a no-op.
var allowedTransitions = map[ApprovalStatus][]ApprovalStatus{
	StatusPending:  {StatusPending, StatusApproved, StatusRejected},
	StatusRejected: {StatusPending},
}

// CanTransition reports whether an account may move from one status to another
func CanTransition(from, to ApprovalStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ImportInviteStatus tracks an imported row through the invite flow
type ImportInviteStatus string

const (
	ImportInvitePending  ImportInviteStatus = "pending"
	ImportInviteSent     ImportInviteStatus = "sent"
	ImportInviteAccepted ImportInviteStatus = "accepted"
)

// InviteStatus of an issued invite code
type InviteStatus string

const (
	InviteSent     InviteStatus = "sent"
	InviteRedeemed InviteStatus = "redeemed"
)

// ImportStatus of a batch
type ImportStatus string

const (
	ImportCommitted ImportStatus = "committed"
)

// NotificationType tags a notification with its producer
type NotificationType string

const (
	NotificationEvent     NotificationType = "event"
	NotificationApproval  NotificationType = "approval"
	NotificationRejection NotificationType = "rejection"
)

// AttendeeRegistered is the only attendee status written today
const AttendeeRegistered = "registered"
