// Package terminal drives the wizard from a line-oriented terminal: it draws
// each view as markdown and maps numbered choices onto wizard actions.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
	"tripwizard/internal/models/response_models"
	"tripwizard/internal/services"
	"tripwizard/pkg/utils"
)

const quitCommand = "q"

// Renderer turns markdown into whatever the terminal should print.
type Renderer func(markdown string) (string, error)

// PlainRenderer prints the markdown source unchanged.
func PlainRenderer(markdown string) (string, error) { return markdown, nil }

// NewGlamourRenderer styles markdown for a colour terminal.
func NewGlamourRenderer(width int) (Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

type Option func(*Host)

func WithRenderer(r Renderer) Option {
	return func(h *Host) { h.render = r }
}

// WithSecretReader replaces line input for secret fields such as the API key.
func WithSecretReader(read func() (string, error)) Option {
	return func(h *Host) { h.readSecret = read }
}

type Host struct {
	wizard services.WizardServiceInterface
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger

	render     Renderer
	readSecret func() (string, error)
}

func NewHost(wizard services.WizardServiceInterface, in io.Reader, out io.Writer, logger *zap.Logger, opts ...Option) *Host {
	h := &Host{
		wizard: wizard,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
		render: PlainRenderer,
	}
	h.readSecret = h.readLine
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts a session and loops until the user quits or input ends.
// The session is removed on the way out.
func (h *Host) Run(ctx context.Context, apiKey string) error {
	view, err := h.wizard.StartSession(ctx, apiKey)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.wizard.EndSession(context.WithoutCancel(ctx), view.SessionID); err != nil {
			h.logger.Warn("failed to end session", zap.String("session_id", view.SessionID), zap.Error(err))
		}
	}()

	for {
		if err := h.draw(view); err != nil {
			return err
		}

		action, ok, err := h.chooseAction(view)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		var text string
		if action.NeedsInput {
			if text, err = h.readInput(view.Input); err != nil {
				return err
			}
		}

		next, err := h.dispatch(ctx, view.SessionID, action.ID, text)
		if err != nil {
			if !isUserError(err) {
				return err
			}
			fmt.Fprintf(h.out, "\n! %s\n", describe(err))
			if next, err = h.wizard.View(ctx, view.SessionID); err != nil {
				return err
			}
		}
		view = next
	}
}

func (h *Host) draw(view response_models.WizardView) error {
	out, err := h.render(Markdown(view))
	if err != nil {
		return fmt.Errorf("render view: %w", err)
	}
	_, err = fmt.Fprintln(h.out, out)
	return err
}

// chooseAction reports ok=false when the user quits or input is exhausted.
func (h *Host) chooseAction(view response_models.WizardView) (response_models.ViewAction, bool, error) {
	for {
		fmt.Fprint(h.out, "> ")
		line, err := h.readLine()
		if errors.Is(err, io.EOF) {
			return response_models.ViewAction{}, false, nil
		}
		if err != nil {
			return response_models.ViewAction{}, false, err
		}

		switch {
		case line == quitCommand:
			return response_models.ViewAction{}, false, nil
		case line == "":
			continue
		}
		if action, ok := resolveAction(view, line); ok {
			return action, true, nil
		}
		fmt.Fprintf(h.out, "Unknown choice %q. Pick a number from the list or %q to quit.\n", line, quitCommand)
	}
}

func (h *Host) readInput(field *response_models.InputField) (string, error) {
	secret := false
	if field != nil {
		fmt.Fprintf(h.out, "%s\n", field.Label)
		if field.Placeholder != "" {
			fmt.Fprintf(h.out, "  e.g. %s\n", field.Placeholder)
		}
		secret = field.Secret
	}
	fmt.Fprint(h.out, ">> ")

	read := h.readLine
	if secret {
		read = h.readSecret
	}
	text, err := read()
	if errors.Is(err, io.EOF) {
		return text, nil
	}
	return text, err
}

func (h *Host) readLine() (string, error) {
	line, err := h.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (h *Host) dispatch(ctx context.Context, sessionID, actionID, text string) (response_models.WizardView, error) {
	switch actionID {
	case response_models.ActionSetAPIKey:
		return h.wizard.SetAPIKey(ctx, sessionID, text)
	case response_models.ActionSubmitPreferences:
		return h.wizard.SubmitPreferences(ctx, sessionID, text)
	case response_models.ActionSubmitSelection:
		return h.wizard.SubmitSelection(ctx, sessionID, text)
	case response_models.ActionPlanDay:
		fmt.Fprintln(h.out, "Planning your day...")
		return h.wizard.PlanDay(ctx, sessionID)
	case response_models.ActionAsk:
		return h.wizard.Ask(ctx, sessionID, text)
	case response_models.ActionBack:
		return h.wizard.Back(ctx, sessionID)
	case response_models.ActionRestart:
		return h.wizard.Restart(ctx, sessionID)
	default:
		return response_models.WizardView{}, fmt.Errorf("unknown action %q", actionID)
	}
}

// resolveAction accepts the 1-based position shown in the menu or the action id.
func resolveAction(view response_models.WizardView, choice string) (response_models.ViewAction, bool) {
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(view.Actions) {
			return view.Actions[n-1], true
		}
		return response_models.ViewAction{}, false
	}
	return view.Action(choice)
}

func isUserError(err error) bool {
	return errors.Is(err, utils.ErrMissingInput) ||
		errors.Is(err, utils.ErrMissingAPIKey) ||
		errors.Is(err, utils.ErrIllegalTransition) ||
		errors.Is(err, utils.ErrSessionBusy)
}

func describe(err error) string {
	msg := err.Error()
	if errors.Is(err, utils.ErrMissingInput) {
		msg = strings.TrimPrefix(msg, utils.ErrMissingInput.Error()+": ")
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
