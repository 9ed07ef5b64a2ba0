package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/jrsteele09/go-challenge-client/notify"
	"github.com/jrsteele09/go-challenge-client/participation"
	"github.com/pkg/errors"
)

var (
	_ participation.Prompter  = (*UI)(nil)
	_ participation.Notifier  = (*UI)(nil)
	_ participation.Navigator = (*UI)(nil)
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	toastStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	routeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// UI is a terminal front-end for the participation flow.
type UI struct {
	in            *bufio.Reader
	out           io.Writer
	clock         clockwork.Clock
	toastDuration time.Duration

	mu     sync.Mutex
	toast  *notify.Toast
	routes []string
}

// UIOption defines a function type to modify the UI instance.
type UIOption func(*UI)

// WithClock sets the clock toasts count down on (primarily for testing)
func WithClock(clock clockwork.Clock) UIOption {
	return func(u *UI) {
		u.clock = clock
	}
}

// WithToastDuration sets how long toasts stay up.
func WithToastDuration(d time.Duration) UIOption {
	return func(u *UI) {
		u.toastDuration = d
	}
}

func NewUI(in io.Reader, out io.Writer, options ...UIOption) *UI {
	u := &UI{
		in:            bufio.NewReader(in),
		out:           out,
		clock:         clockwork.NewRealClock(),
		toastDuration: notify.DefaultToastDuration,
	}
	for _, opt := range options {
		opt(u)
	}
	return u
}

// Confirm prints the prompt and reads one line. Only y or yes accepts.
func (u *UI) Confirm(ctx context.Context, c participation.Confirmation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	body := titleStyle.Render(c.Title) + "\n" + c.Text
	if _, err := fmt.Fprintf(u.out, "%s\n[y] %s  [n] %s: ", dialogStyle.Render(body), c.AcceptLabel, c.CancelLabel); err != nil {
		return false, errors.Wrap(err, "[UI.Confirm] write")
	}

	line, err := u.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return false, errors.Wrap(err, "[UI.Confirm] read")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Toast shows text and blocks until the toast dismisses itself or ctx ends.
func (u *UI) Toast(ctx context.Context, text string) error {
	toast := notify.NewToast(u.clock, text, u.toastDuration)
	u.mu.Lock()
	u.toast = toast
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		if u.toast == toast {
			u.toast = nil
		}
		u.mu.Unlock()
	}()

	if _, err := fmt.Fprintln(u.out, toastStyle.Render("✔ "+text)); err != nil {
		toast.Dismiss()
		return errors.Wrap(err, "[UI.Toast] write")
	}

	select {
	case <-toast.Done():
		return nil
	case <-ctx.Done():
		toast.Dismiss()
		return ctx.Err()
	}
}

// ActiveToast returns the toast currently shown, or nil. Front-ends with pointer input
// pause and resume it on hover.
func (u *UI) ActiveToast() *notify.Toast {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.toast
}

// Dialog prints an informational box and waits for Enter.
func (u *UI) Dialog(ctx context.Context, d participation.Dialog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := titleStyle.Render(d.Title)
	if d.Text != "" {
		body += "\n" + d.Text
	}
	if _, err := fmt.Fprintln(u.out, dialogStyle.Render(body)); err != nil {
		return errors.Wrap(err, "[UI.Dialog] write")
	}
	if _, err := u.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "[UI.Dialog] read")
	}
	return nil
}

// Navigate records the route and prints it; the terminal has no pages to switch.
func (u *UI) Navigate(ctx context.Context, route string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.Lock()
	u.routes = append(u.routes, route)
	u.mu.Unlock()
	_, err := fmt.Fprintln(u.out, routeStyle.Render("→ "+route))
	return err
}

// Routes returns the routes navigated to so far.
func (u *UI) Routes() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.routes...)
}
