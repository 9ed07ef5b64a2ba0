package participation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-challenge-client/challenges"
	apperrors "github.com/jrsteele09/go-challenge-client/internal/errors"
	"github.com/jrsteele09/go-challenge-client/notify"
	"github.com/jrsteele09/go-challenge-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultTopUpRoute = "/ordersheet"

// Confirmation is the content of the blocking accept/decline prompt.
type Confirmation struct {
	Title       string
	Text        string
	AcceptLabel string
	CancelLabel string
}

// Dialog is a blocking informational dialog. Text may be empty.
type Dialog struct {
	Title string
	Text  string
}

// Prompter asks the user to accept or decline.
type Prompter interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// Notifier shows feedback. Toast is transient and dismisses itself; Dialog blocks until
// acknowledged.
type Notifier interface {
	Toast(ctx context.Context, text string) error
	Dialog(ctx context.Context, d Dialog) error
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(ctx context.Context, route string) error
}

// PageData re-fetches the data of the page the action was started from.
type PageData interface {
	RefreshChallenge(ctx context.Context, challengeID int64) error
}

// Participator issues the participate request.
type Participator interface {
	Participate(ctx context.Context, challengeID int64, accessToken string) error
}

// Session is the credential owner.
type Session interface {
	Credentials() session.Credentials
	Renew(ctx context.Context) error
	RememberChallenge(ctx context.Context, challengeID int64) error
}

// Translator renders user facing texts.
type Translator interface {
	T(id string, data map[string]any) string
}

// Deps holds all collaborators of the Controller.
type Deps struct {
	Participator Participator // Participate endpoint
	Session      Session      // Credentials and renewal
	Prompter     Prompter     // Confirmation prompt
	Notifier     Notifier     // Toasts and dialogs
	Navigator    Navigator    // Route changes
	Page         PageData     // Page data refresh after joining
	Messages     Translator   // Texts
}

// Controller runs the join flow for challenges.
//
// Callers must not start a second attempt while one is outstanding (disable the trigger
// until AttemptParticipation returns). The Controller does not deduplicate.
type Controller struct {
	deps         Deps
	topUpRoute   string
	newAttemptID func() uuid.UUID
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithTopUpRoute sets where users are sent to top up their balance.
func WithTopUpRoute(route string) ControllerOption {
	return func(c *Controller) {
		c.topUpRoute = route
	}
}

// WithAttemptIDFunc sets the attempt id generator (primarily for testing)
func WithAttemptIDFunc(f func() uuid.UUID) ControllerOption {
	return func(c *Controller) {
		c.newAttemptID = f
	}
}

// NewController validates deps and builds a Controller.
func NewController(deps Deps, options ...ControllerOption) (*Controller, error) {
	if deps.Participator == nil {
		return nil, errors.New("[NewController] Participator is required")
	}
	if deps.Session == nil {
		return nil, errors.New("[NewController] Session is required")
	}
	if deps.Prompter == nil {
		return nil, errors.New("[NewController] Prompter is required")
	}
	if deps.Notifier == nil {
		return nil, errors.New("[NewController] Notifier is required")
	}
	if deps.Navigator == nil {
		return nil, errors.New("[NewController] Navigator is required")
	}
	if deps.Page == nil {
		return nil, errors.New("[NewController] Page is required")
	}
	if deps.Messages == nil {
		return nil, errors.New("[NewController] Messages is required")
	}

	c := &Controller{
		deps:         deps,
		topUpRoute:   defaultTopUpRoute,
		newAttemptID: uuid.New,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// AttemptParticipation asks for confirmation, sends the participate request and gives
// the user feedback for the result. Every error is handled here; the Outcome is only
// informational.
//
// A 401 triggers one token renewal, but the request is not sent again afterwards: the
// user has to start a new attempt.
func (c *Controller) AttemptParticipation(ctx context.Context, challenge *challenges.Challenge) Outcome {
	out := Outcome{AttemptID: c.newAttemptID()}
	logger := log.With().
		Str("attempt_id", out.AttemptID.String()).
		Int64("challenge_id", challenge.ID).
		Logger()

	if c.deps.Session.Credentials().Anonymous() {
		logger.Warn().Msg("Participation attempted without an access token")
		out.Kind = KindNotInvocable
		out.Err = apperrors.ErrAnonymousSession
		return out
	}

	titleData := map[string]any{"Title": challenge.Title}
	confirmed, err := c.deps.Prompter.Confirm(ctx, Confirmation{
		Title:       c.deps.Messages.T(notify.MsgConfirmTitle, nil),
		Text:        c.deps.Messages.T(notify.MsgConfirmText, titleData),
		AcceptLabel: c.deps.Messages.T(notify.MsgConfirmAccept, nil),
		CancelLabel: c.deps.Messages.T(notify.MsgConfirmCancel, nil),
	})
	if err != nil {
		logger.Err(err).Msg("Confirmation prompt failed")
		out.Kind = KindDeclined
		out.Err = err
		return out
	}
	if !confirmed {
		out.Kind = KindDeclined
		return out
	}

	if err := c.deps.Session.RememberChallenge(ctx, challenge.ID); err != nil {
		logger.Err(err).Msg("Failed to remember challenge")
	}

	accessToken := c.deps.Session.Credentials().AccessToken
	if err := c.deps.Participator.Participate(ctx, challenge.ID, accessToken); err != nil {
		return c.handleFailure(ctx, logger, challenge, out, err)
	}

	out.Kind = KindSuccess
	logger.Info().Msg("Joined challenge")
	c.uiStep(logger, "toast", c.deps.Notifier.Toast(ctx, c.deps.Messages.T(notify.MsgJoined, titleData)))
	c.uiStep(logger, "refresh", c.deps.Page.RefreshChallenge(ctx, challenge.ID))
	return out
}

func (c *Controller) handleFailure(ctx context.Context, logger zerolog.Logger, challenge *challenges.Challenge, out Outcome, err error) Outcome {
	out.Kind = classifyFailure(challenge, err)
	out.Err = err
	logger.Err(err).Str("kind", out.Kind.String()).Msg("Participation failed")

	switch out.Kind {
	case KindCapacityExceeded:
		c.uiStep(logger, "dialog", c.deps.Notifier.Dialog(ctx, Dialog{
			Title: c.deps.Messages.T(notify.MsgChallengeFullTitle, nil),
			Text:  c.deps.Messages.T(notify.MsgChallengeFullText, nil),
		}))

	case KindInsufficientBalance:
		c.uiStep(logger, "dialog", c.deps.Notifier.Dialog(ctx, Dialog{
			Title: c.deps.Messages.T(notify.MsgTopUpTitle, nil),
		}))
		c.uiStep(logger, "navigate", c.deps.Navigator.Navigate(ctx, c.topUpRoute))

	case KindUnauthorized:
		if renewErr := c.deps.Session.Renew(ctx); renewErr != nil {
			out.RenewalErr = renewErr
			logger.Err(renewErr).Msg("Failed to renew access token")
		}
	}
	return out
}

// uiStep logs a failed UI call. The view may be gone by the time an attempt finishes,
// which must not break the flow.
func (c *Controller) uiStep(logger zerolog.Logger, step string, err error) {
	if err != nil {
		logger.Err(err).Str("step", step).Msg("UI step failed")
	}
}
