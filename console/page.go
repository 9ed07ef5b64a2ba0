package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-challenge-client/challenges"
	"github.com/jrsteele09/go-challenge-client/participation"
	"github.com/pkg/errors"
)

var _ participation.PageData = (*ChallengePage)(nil)

// ChallengeFetcher loads challenge details.
type ChallengeFetcher interface {
	GetChallenge(ctx context.Context, challengeID int64, accessToken string) (*challenges.Challenge, error)
}

// TokenSource supplies the current access token.
type TokenSource interface {
	AccessToken() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) AccessToken() string { return f() }

// ChallengePage is the challenge detail view.
type ChallengePage struct {
	fetcher ChallengeFetcher
	tokens  TokenSource
	out     io.Writer

	mu      sync.RWMutex
	current *challenges.Challenge
}

func NewChallengePage(fetcher ChallengeFetcher, tokens TokenSource, out io.Writer) *ChallengePage {
	return &ChallengePage{
		fetcher: fetcher,
		tokens:  tokens,
		out:     out,
	}
}

// Load fetches and renders the challenge.
func (p *ChallengePage) Load(ctx context.Context, challengeID int64) (*challenges.Challenge, error) {
	ch, err := p.fetcher.GetChallenge(ctx, challengeID, p.tokens.AccessToken())
	if err != nil {
		return nil, errors.Wrap(err, "[ChallengePage.Load]")
	}
	p.mu.Lock()
	p.current = ch
	p.mu.Unlock()

	p.render(ch)
	return ch, nil
}

// RefreshChallenge reloads the page data, e.g. after joining.
func (p *ChallengePage) RefreshChallenge(ctx context.Context, challengeID int64) error {
	_, err := p.Load(ctx, challengeID)
	return err
}

// Current returns the last loaded challenge.
func (p *ChallengePage) Current() *challenges.Challenge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// JoinOffered reports whether the join action should be shown for the loaded challenge.
func (p *ChallengePage) JoinOffered(now time.Time, loc *time.Location) bool {
	ch := p.Current()
	if ch == nil {
		return false
	}
	return ch.CanJoin(now, loc, p.tokens.AccessToken() != "")
}

func (p *ChallengePage) render(ch *challenges.Challenge) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ch.Title))
	fmt.Fprintf(&b, "\nviews: %d", ch.ViewCount)
	fmt.Fprintf(&b, "\nmembers: %d / %d (min %d)", ch.CurrentParty, ch.MaxParty, ch.MinParty)
	fmt.Fprintf(&b, "\nperiod: %s ~ %s", ch.StartDate, ch.EndDate)
	fmt.Fprintf(&b, "\nfee: %d", ch.FeePerPerson)
	if len(ch.AuthTimes) > 0 {
		fmt.Fprintf(&b, "\nauth times: %s", strings.Join(ch.AuthTimes, ", "))
	}
	if ch.Description != "" {
		b.WriteString("\n\n" + ch.Description)
	}
	fmt.Fprintln(p.out, dialogStyle.Render(b.String()))
}
