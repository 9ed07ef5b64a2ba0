package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	apperrors "github.com/jrsteele09/go-challenge-client/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const renewKey = "renew"

// Renewer exchanges a refresh token for a new access token.
type Renewer interface {
	RenewAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// RenewalFailure is returned by Renew when no new access token could be obtained.
// The stored credentials are unchanged when it is returned.
type RenewalFailure struct {
	Err error
}

func (e *RenewalFailure) Error() string {
	return fmt.Sprintf("token renewal failed: %v", e.Err)
}

func (e *RenewalFailure) Unwrap() error {
	return e.Err
}

// TokenStore owns the process wide credentials. It is their only writer: every other
// component reads snapshots through Credentials.
type TokenStore struct {
	storage Storage
	renewer Renewer
	mirror  bool

	mu    sync.RWMutex
	creds Credentials

	renewGroup singleflight.Group
}

// TokenStoreOption defines a function type to modify the TokenStore instance.
type TokenStoreOption func(*TokenStore)

// WithDiagnosticMirror also writes renewed access tokens to the legacy diagnostic slot.
func WithDiagnosticMirror(enabled bool) TokenStoreOption {
	return func(ts *TokenStore) {
		ts.mirror = enabled
	}
}

// NewTokenStore creates a store backed by storage. Call Load before use.
func NewTokenStore(storage Storage, renewer Renewer, options ...TokenStoreOption) (*TokenStore, error) {
	if storage == nil {
		return nil, errors.New("[NewTokenStore] storage is required")
	}
	if renewer == nil {
		return nil, errors.New("[NewTokenStore] renewer is required")
	}

	ts := &TokenStore{
		storage: storage,
		renewer: renewer,
	}
	for _, opt := range options {
		opt(ts)
	}
	return ts, nil
}

// Load reads the credentials from durable storage into memory.
func (ts *TokenStore) Load(ctx context.Context) error {
	access, _, err := ts.storage.Get(ctx, AccessTokenSlot)
	if err != nil {
		return errors.Wrap(err, "[TokenStore.Load] access token")
	}
	refresh, _, err := ts.storage.Get(ctx, RefreshTokenSlot)
	if err != nil {
		return errors.Wrap(err, "[TokenStore.Load] refresh token")
	}

	creds := Credentials{AccessToken: access, RefreshToken: refresh}
	if !creds.RefreshOutlivesAccess() {
		log.Warn().Msg("refresh token expires before the access token it was issued with")
	}

	ts.mu.Lock()
	ts.creds = creds
	ts.mu.Unlock()
	return nil
}

// Credentials returns a snapshot of the current credentials.
func (ts *TokenStore) Credentials() Credentials {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.creds
}

// Renew fetches a new access token with the current refresh token and replaces the
// stored one. On failure the existing credentials are kept as they are; the session is
// never cleared. Concurrent calls share one renewal request.
func (ts *TokenStore) Renew(ctx context.Context) error {
	_, err, _ := ts.renewGroup.Do(renewKey, func() (any, error) {
		return nil, ts.renew(ctx)
	})
	return err
}

func (ts *TokenStore) renew(ctx context.Context) error {
	refreshToken := ts.Credentials().RefreshToken
	if refreshToken == "" {
		return &RenewalFailure{Err: apperrors.ErrNoRefreshToken}
	}

	accessToken, err := ts.renewer.RenewAccessToken(ctx, refreshToken)
	if err != nil {
		return &RenewalFailure{Err: err}
	}

	if err := ts.storage.Set(ctx, AccessTokenSlot, accessToken); err != nil {
		return &RenewalFailure{Err: errors.Wrap(err, "[TokenStore.Renew] persist access token")}
	}
	if ts.mirror {
		if err := ts.storage.Set(ctx, DiagnosticMirrorSlot, accessToken); err != nil {
			log.Err(err).Msg("Failed to mirror renewed access token")
		}
	}

	ts.mu.Lock()
	ts.creds.AccessToken = accessToken
	ts.mu.Unlock()

	event := log.Info()
	if exp, ok := ts.Credentials().AccessExpiry(); ok {
		event = event.Time("expires_at", exp)
	}
	event.Msg("access token renewed")
	return nil
}

// RememberChallenge records the last challenge the user tried to join.
func (ts *TokenStore) RememberChallenge(ctx context.Context, challengeID int64) error {
	if err := ts.storage.Set(ctx, ChallengeIDSlot, strconv.FormatInt(challengeID, 10)); err != nil {
		return errors.Wrap(err, "[TokenStore.RememberChallenge]")
	}
	return nil
}
