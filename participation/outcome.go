package participation

import "github.com/google/uuid"

// Kind is the result class of one participation attempt.
type Kind int

const (
	KindSuccess             Kind = iota
	KindDeclined                 // User declined the confirmation, nothing was sent
	KindNotInvocable             // Anonymous session, the action should not have been offered
	KindCapacityExceeded         // Challenge already has its maximum number of members
	KindInsufficientBalance      // Paid challenge and the user must top up first
	KindUnauthorized             // Access token rejected, renewal was attempted
	KindUnclassified             // Server error with no defined user facing handling
	KindNetworkFailure           // Participate request never got a response
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindDeclined:
		return "declined"
	case KindNotInvocable:
		return "not_invocable"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnclassified:
		return "unclassified"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// Outcome describes what one call to AttemptParticipation did. All user feedback has
// already been given through the UI ports when it is returned.
type Outcome struct {
	AttemptID  uuid.UUID
	Kind       Kind
	Err        error // Participate (or prompt) error behind a failure kind
	RenewalErr error // Set when an Unauthorized renewal failed
}

// Succeeded reports whether the user is now a participant.
func (o Outcome) Succeeded() bool {
	return o.Kind == KindSuccess
}
