package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-challenge-client/api"
	"github.com/jrsteele09/go-challenge-client/console"
	"github.com/jrsteele09/go-challenge-client/internal/config"
	"github.com/jrsteele09/go-challenge-client/notify"
	"github.com/jrsteele09/go-challenge-client/participation"
	"github.com/jrsteele09/go-challenge-client/session"
	"github.com/jrsteele09/go-challenge-client/session/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage:
  challenger login <access-token> <refresh-token>
  challenger show <challenge-id>
  challenger join <challenge-id>`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("challenger failed")
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return errors.New("missing command")
	}

	c := config.New()
	setupLogging(c.GetEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.Open(c.GetStoragePath())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer storage.Close()

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return errors.New(usage)
		}
		return login(ctx, storage, args[1], args[2])
	case "show", "join":
		if len(args) != 2 {
			return errors.New(usage)
		}
		challengeID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid challenge id %q: %w", args[1], err)
		}
		displayAppname(c.GetAppName())
		return showOrJoin(ctx, c, storage, challengeID, args[0] == "join")
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// login stores credentials obtained elsewhere; signing in is not part of this client.
func login(ctx context.Context, storage session.Storage, accessToken, refreshToken string) error {
	if err := storage.Set(ctx, session.AccessTokenSlot, accessToken); err != nil {
		return err
	}
	return storage.Set(ctx, session.RefreshTokenSlot, refreshToken)
}

func showOrJoin(ctx context.Context, c config.Config, storage session.Storage, challengeID int64, join bool) error {
	client, err := api.NewClient(c.GetAPIBaseURL(),
		api.WithTimeout(c.GetAPITimeout()),
		api.WithBotBypass(c.GetBotBypassHeader()),
	)
	if err != nil {
		return err
	}

	store, err := session.NewTokenStore(storage, client, session.WithDiagnosticMirror(c.GetDiagnosticMirror()))
	if err != nil {
		return err
	}
	if err := store.Load(ctx); err != nil {
		return err
	}

	ui := console.NewUI(os.Stdin, os.Stdout, console.WithToastDuration(c.GetToastDuration()))
	page := console.NewChallengePage(client, console.TokenSourceFunc(func() string {
		return store.Credentials().AccessToken
	}), os.Stdout)

	challenge, err := page.Load(ctx, challengeID)
	if err != nil {
		return err
	}
	if !join {
		return nil
	}
	if !page.JoinOffered(time.Now(), c.GetTimezone()) {
		return errors.New("joining is not available: sign in first or the join window has closed")
	}

	controller, err := participation.NewController(participation.Deps{
		Participator: client,
		Session:      store,
		Prompter:     ui,
		Notifier:     ui,
		Navigator:    ui,
		Page:         page,
		Messages:     notify.NewTranslator(c.GetLocale()),
	}, participation.WithTopUpRoute(c.GetTopUpRoute()))
	if err != nil {
		return err
	}

	out := controller.AttemptParticipation(ctx, challenge)
	log.Debug().Str("attempt_id", out.AttemptID.String()).Str("kind", out.Kind.String()).Msg("Attempt finished")
	return nil
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
