package session

import "context"

// Slot keys of the durable client side storage.
const (
	AccessTokenSlot      = "authorizationToken"
	RefreshTokenSlot     = "refreshToken"
	DiagnosticMirrorSlot = "test" // Legacy, write-only
	ChallengeIDSlot      = "challengeId"
)

// Storage is durable key/value slot storage that survives restarts.
type Storage interface {
	// Get returns the slot value; ok is false when the slot was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
