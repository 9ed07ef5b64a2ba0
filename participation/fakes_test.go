package participation_test

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-challenge-client/participation"
	"github.com/jrsteele09/go-challenge-client/session"
)

// fakeUI records every UI interaction.
type fakeUI struct {
	mu          sync.Mutex
	confirm     bool
	confirmErr  error
	uiErr       error
	prompts     []participation.Confirmation
	toasts      []string
	dialogs     []participation.Dialog
	navigations []string
	refreshes   []int64
}

func (u *fakeUI) Confirm(_ context.Context, c participation.Confirmation) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.prompts = append(u.prompts, c)
	return u.confirm, u.confirmErr
}

func (u *fakeUI) Toast(_ context.Context, text string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toasts = append(u.toasts, text)
	return u.uiErr
}

func (u *fakeUI) Dialog(_ context.Context, d participation.Dialog) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.dialogs = append(u.dialogs, d)
	return u.uiErr
}

func (u *fakeUI) Navigate(_ context.Context, route string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.navigations = append(u.navigations, route)
	return u.uiErr
}

func (u *fakeUI) RefreshChallenge(_ context.Context, challengeID int64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.refreshes = append(u.refreshes, challengeID)
	return u.uiErr
}

// fakeParticipator returns err and records calls.
type fakeParticipator struct {
	err    error
	calls  int
	tokens []string
}

func (p *fakeParticipator) Participate(_ context.Context, _ int64, accessToken string) error {
	p.calls++
	p.tokens = append(p.tokens, accessToken)
	return p.err
}

// fakeSession is an in-memory participation.Session.
type fakeSession struct {
	creds      session.Credentials
	renewErr   error
	renewCalls int
	remembered []int64
}

func (s *fakeSession) Credentials() session.Credentials { return s.creds }

func (s *fakeSession) Renew(context.Context) error {
	s.renewCalls++
	return s.renewErr
}

func (s *fakeSession) RememberChallenge(_ context.Context, id int64) error {
	s.remembered = append(s.remembered, id)
	return nil
}
