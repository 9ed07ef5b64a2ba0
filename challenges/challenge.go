package challenges

import (
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-challenge-client/internal/errors"
	"github.com/pkg/errors"
)

// DateLayout is the calendar date format the API uses for challenge dates.
const DateLayout = "2006-01-02"

// Challenge is the challenge detail as returned by the API. The participation flow only
// reads ID, Title and FeePerPerson; the rest is display data.
type Challenge struct {
	ID           int64    `json:"challengeId"`
	Title        string   `json:"challengeTitle"`
	Description  string   `json:"challengeDescription,omitempty"`
	FeePerPerson int64    `json:"challengeFeePerPerson"` // Minor currency unit, never negative
	StartDate    string   `json:"challengeStartDate"`    // YYYY-MM-DD
	EndDate      string   `json:"challengeEndDate"`      // YYYY-MM-DD
	MinParty     int      `json:"challengeMinParty"`
	MaxParty     int      `json:"challengeMaxParty"`
	CurrentParty int      `json:"challengeCurrentParty"`
	ViewCount    int      `json:"challengeViewCount"`
	AuthTimes    []string `json:"challengeAuthAvailableTime,omitempty"`
}

// IsFree reports whether joining costs nothing.
func (c *Challenge) IsFree() bool {
	return c.FeePerPerson == 0
}

// Validate checks the fields the participation flow depends on.
func (c *Challenge) Validate() error {
	if c.ID <= 0 {
		return errors.Wrap(apperrors.ErrInvalidChallenge, "[Challenge.Validate] id must be positive")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.Wrap(apperrors.ErrInvalidChallenge, "[Challenge.Validate] title is required")
	}
	if c.FeePerPerson < 0 {
		return errors.Wrap(apperrors.ErrInvalidChallenge, "[Challenge.Validate] fee must not be negative")
	}
	return nil
}

// Start parses StartDate as midnight in loc.
func (c *Challenge) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(c.StartDate), loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(apperrors.ErrInvalidStartDate, "[Challenge.Start] %q: %v", c.StartDate, err)
	}
	return start, nil
}

// JoinDeadline is the start of the calendar day after the start date. Joining stays open
// until then, so users can still sign up on the day the challenge starts.
//
// An earlier revision closed joining at the start date itself; the one day grace window
// is the current behaviour.
func (c *Challenge) JoinDeadline(loc *time.Location) (time.Time, error) {
	start, err := c.Start(loc)
	if err != nil {
		return time.Time{}, err
	}
	// AddDate keeps midnight across DST changes, unlike Add(24h).
	return start.AddDate(0, 0, 1), nil
}

// CanJoin reports whether the join action may be offered: the session holds an access
// token and now is before the join deadline.
func (c *Challenge) CanJoin(now time.Time, loc *time.Location, hasAccessToken bool) bool {
	if !hasAccessToken {
		return false
	}
	deadline, err := c.JoinDeadline(loc)
	if err != nil {
		return false
	}
	return now.Before(deadline)
}
