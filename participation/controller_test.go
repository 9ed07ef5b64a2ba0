package participation_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-challenge-client/api"
	"github.com/jrsteele09/go-challenge-client/challenges"
	apperrors "github.com/jrsteele09/go-challenge-client/internal/errors"
	"github.com/jrsteele09/go-challenge-client/notify"
	"github.com/jrsteele09/go-challenge-client/participation"
	"github.com/jrsteele09/go-challenge-client/session"
	"github.com/jrsteele09/go-challenge-client/session/storagefake"
	"github.com/stretchr/testify/require"
)

const testTopUpRoute = "/ordersheet"

var (
	freeChallenge = &challenges.Challenge{ID: 7, Title: "10k Steps", FeePerPerson: 0, StartDate: "2022-11-20"}
	paidChallenge = &challenges.Challenge{ID: 8, Title: "Morning Run", FeePerPerson: 5000, StartDate: "2022-11-20"}
)

// testFixture holds all test dependencies
type testFixture struct {
	ui           *fakeUI
	participator *fakeParticipator
	session      *fakeSession
	controller   *participation.Controller
}

func setupTestFixture(t *testing.T, participateErr error) *testFixture {
	t.Helper()

	f := &testFixture{
		ui:           &fakeUI{confirm: true},
		participator: &fakeParticipator{err: participateErr},
		session:      &fakeSession{creds: session.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"}},
	}

	c, err := participation.NewController(participation.Deps{
		Participator: f.participator,
		Session:      f.session,
		Prompter:     f.ui,
		Notifier:     f.ui,
		Navigator:    f.ui,
		Page:         f.ui,
		Messages:     notify.NewTranslator("en"),
	}, participation.WithTopUpRoute(testTopUpRoute))
	require.NoError(t, err)
	f.controller = c
	return f
}

func apiError(status int, message api.ServerMessage) error {
	return &api.APIError{HTTPStatus: status, Status: status, Message: message}
}

func TestNewController_RequiresDeps(t *testing.T) {
	_, err := participation.NewController(participation.Deps{})
	require.Error(t, err)
}

func TestAttemptParticipation_Declined(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.ui.confirm = false

	out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

	require.Equal(t, participation.KindDeclined, out.Kind)
	require.Zero(t, f.participator.calls)
	require.Empty(t, f.session.remembered)
	require.Empty(t, f.ui.toasts)
	require.Empty(t, f.ui.dialogs)
	require.Len(t, f.ui.prompts, 1)
	require.Contains(t, f.ui.prompts[0].Text, "10k Steps")
}

func TestAttemptParticipation_PromptFailure(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.ui.confirmErr = errors.New("view closed")

	out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

	require.Equal(t, participation.KindDeclined, out.Kind)
	require.Error(t, out.Err)
	require.Zero(t, f.participator.calls)
}

func TestAttemptParticipation_Anonymous(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.session.creds = session.Credentials{}

	out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

	require.Equal(t, participation.KindNotInvocable, out.Kind)
	require.ErrorIs(t, out.Err, apperrors.ErrAnonymousSession)
	require.Empty(t, f.ui.prompts)
	require.Zero(t, f.participator.calls)
}

func TestAttemptParticipation_Success(t *testing.T) {
	for _, ch := range []*challenges.Challenge{freeChallenge, paidChallenge} {
		t.Run(ch.Title, func(t *testing.T) {
			f := setupTestFixture(t, nil)

			out := f.controller.AttemptParticipation(context.Background(), ch)

			require.True(t, out.Succeeded())
			require.Equal(t, []string{"access-1"}, f.participator.tokens)
			require.Len(t, f.ui.toasts, 1)
			require.Contains(t, f.ui.toasts[0], ch.Title)
			require.Equal(t, []int64{ch.ID}, f.ui.refreshes)
			require.Empty(t, f.ui.navigations)
			require.Empty(t, f.ui.dialogs)
			require.Equal(t, []int64{ch.ID}, f.session.remembered)
			require.Zero(t, f.session.renewCalls)
		})
	}
}

func TestAttemptParticipation_CapacityExceeded(t *testing.T) {
	for _, ch := range []*challenges.Challenge{freeChallenge, paidChallenge} {
		t.Run(ch.Title, func(t *testing.T) {
			f := setupTestFixture(t, apiError(http.StatusBadRequest, api.MessageMaxMember))

			out := f.controller.AttemptParticipation(context.Background(), ch)

			require.Equal(t, participation.KindCapacityExceeded, out.Kind)
			require.Equal(t, []participation.Dialog{{Title: "This challenge is full.", Text: "Please try another one."}}, f.ui.dialogs)
			require.Empty(t, f.ui.navigations)
			require.Empty(t, f.ui.toasts)
			require.Empty(t, f.ui.refreshes)
			require.Zero(t, f.session.renewCalls)
		})
	}
}

func TestAttemptParticipation_InsufficientBalance(t *testing.T) {
	t.Run("paid challenge tops up", func(t *testing.T) {
		f := setupTestFixture(t, apiError(http.StatusBadRequest, api.MessageChargeMoney))

		out := f.controller.AttemptParticipation(context.Background(), paidChallenge)

		require.Equal(t, participation.KindInsufficientBalance, out.Kind)
		require.Equal(t, []participation.Dialog{{Title: "Please top up your points."}}, f.ui.dialogs)
		require.Equal(t, []string{testTopUpRoute}, f.ui.navigations)
	})

	t.Run("free challenge never tops up", func(t *testing.T) {
		f := setupTestFixture(t, apiError(http.StatusBadRequest, api.MessageChargeMoney))

		out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

		require.Equal(t, participation.KindUnclassified, out.Kind)
		require.Empty(t, f.ui.dialogs)
		require.Empty(t, f.ui.navigations)
	})
}

func TestAttemptParticipation_Unauthorized(t *testing.T) {
	messages := []api.ServerMessage{api.MessageUnknown, api.MessageMaxMember, api.MessageChargeMoney}
	for _, ch := range []*challenges.Challenge{freeChallenge, paidChallenge} {
		for _, msg := range messages {
			t.Run(ch.Title+"/"+msg.String(), func(t *testing.T) {
				f := setupTestFixture(t, &api.APIError{HTTPStatus: http.StatusUnauthorized, Status: http.StatusUnauthorized, Message: msg})

				out := f.controller.AttemptParticipation(context.Background(), ch)

				require.Equal(t, participation.KindUnauthorized, out.Kind)
				require.Equal(t, 1, f.session.renewCalls)
				require.Equal(t, 1, f.participator.calls)
				require.Empty(t, f.ui.dialogs)
				require.Empty(t, f.ui.navigations)
				require.NoError(t, out.RenewalErr)
			})
		}
	}

	t.Run("renewal failure stays silent", func(t *testing.T) {
		f := setupTestFixture(t, apiError(http.StatusUnauthorized, api.MessageUnknown))
		f.session.renewErr = &session.RenewalFailure{Err: apperrors.ErrRenewalRejected}

		out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

		require.Equal(t, participation.KindUnauthorized, out.Kind)
		require.ErrorIs(t, out.RenewalErr, apperrors.ErrRenewalRejected)
		require.Equal(t, 1, f.session.renewCalls)
		require.Empty(t, f.ui.dialogs)
		require.Empty(t, f.ui.toasts)
	})
}

func TestAttemptParticipation_SilentFailures(t *testing.T) {
	t.Run("unclassified", func(t *testing.T) {
		f := setupTestFixture(t, apiError(http.StatusInternalServerError, api.MessageUnknown))

		out := f.controller.AttemptParticipation(context.Background(), paidChallenge)

		require.Equal(t, participation.KindUnclassified, out.Kind)
		require.Empty(t, f.ui.dialogs)
		require.Empty(t, f.ui.navigations)
		require.Zero(t, f.session.renewCalls)
	})

	t.Run("network failure", func(t *testing.T) {
		f := setupTestFixture(t, &api.TransportError{Op: "participate", Err: errors.New("connection refused")})

		out := f.controller.AttemptParticipation(context.Background(), paidChallenge)

		require.Equal(t, participation.KindNetworkFailure, out.Kind)
		require.Empty(t, f.ui.dialogs)
	})

	t.Run("unknown error type", func(t *testing.T) {
		f := setupTestFixture(t, errors.New("odd"))

		out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

		require.Equal(t, participation.KindUnclassified, out.Kind)
	})
}

func TestAttemptParticipation_DismissedView(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.ui.uiErr = errors.New("view dismissed")

	out := f.controller.AttemptParticipation(context.Background(), freeChallenge)

	require.True(t, out.Succeeded())
	require.Len(t, f.ui.refreshes, 1)
}

func TestAttemptParticipation_AttemptID(t *testing.T) {
	id := uuid.MustParse("5b1e2a4c-1f2d-4c3b-9a8e-7d6c5b4a3f21")
	ui := &fakeUI{confirm: false}
	c, err := participation.NewController(participation.Deps{
		Participator: &fakeParticipator{},
		Session:      &fakeSession{creds: session.Credentials{AccessToken: "a"}},
		Prompter:     ui,
		Notifier:     ui,
		Navigator:    ui,
		Page:         ui,
		Messages:     notify.NewTranslator("en"),
	}, participation.WithAttemptIDFunc(func() uuid.UUID { return id }))
	require.NoError(t, err)

	require.Equal(t, id, c.AttemptParticipation(context.Background(), freeChallenge).AttemptID)
}

// End to end scenarios against an HTTP server, with the real API client and token store.
func setupHTTPScenario(t *testing.T, handler http.HandlerFunc) (*participation.Controller, *fakeUI, *session.TokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, api.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	storage := storagefake.NewFakeStorage()
	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, session.AccessTokenSlot, "access-1"))
	require.NoError(t, storage.Set(ctx, session.RefreshTokenSlot, "refresh-1"))
	store, err := session.NewTokenStore(storage, client)
	require.NoError(t, err)
	require.NoError(t, store.Load(ctx))

	ui := &fakeUI{confirm: true}
	c, err := participation.NewController(participation.Deps{
		Participator: client,
		Session:      store,
		Prompter:     ui,
		Notifier:     ui,
		Navigator:    ui,
		Page:         ui,
		Messages:     notify.NewTranslator("en"),
	})
	require.NoError(t, err)
	return c, ui, store
}

func TestScenario_FreeChallengeJoined(t *testing.T) {
	var participateCalls atomic.Int32
	c, ui, _ := setupHTTPScenario(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/challenges/participate/7" {
			participateCalls.Add(1)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	out := c.AttemptParticipation(context.Background(), freeChallenge)

	require.True(t, out.Succeeded())
	require.Equal(t, int32(1), participateCalls.Load())
	require.Len(t, ui.toasts, 1)
	require.Contains(t, ui.toasts[0], "10k Steps")
	require.Equal(t, []int64{7}, ui.refreshes)
}

func TestScenario_ExpiredToken(t *testing.T) {
	var tokenCalls atomic.Int32
	c, ui, store := setupHTTPScenario(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/challenges/participate/7":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"error":{"message":"token expired"}}`))
		case "/token":
			tokenCalls.Add(1)
			w.Header().Set("Authorization", "access-2")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	out := c.AttemptParticipation(context.Background(), freeChallenge)

	require.Equal(t, participation.KindUnauthorized, out.Kind)
	require.Equal(t, int32(1), tokenCalls.Load())
	require.Empty(t, ui.dialogs)
	require.Equal(t, "access-2", store.Credentials().AccessToken)
}

func TestScenario_PaidChallengeNeedsTopUp(t *testing.T) {
	c, ui, _ := setupHTTPScenario(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":400,"error":{"message":"You need to charge money"}}`))
	})

	ch := &challenges.Challenge{ID: 7, Title: "10k Steps", FeePerPerson: 5000}
	out := c.AttemptParticipation(context.Background(), ch)

	require.Equal(t, participation.KindInsufficientBalance, out.Kind)
	require.Len(t, ui.dialogs, 1)
	require.Equal(t, []string{"/ordersheet"}, ui.navigations)
}
