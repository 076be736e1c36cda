package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"tripwizard/internal/models/response_models"
	"tripwizard/internal/models/session_models"
	"tripwizard/internal/repositories"
	"tripwizard/pkg/metrics"
	"tripwizard/pkg/utils"
)

type WizardServiceInterface interface {
	StartSession(ctx context.Context, apiKey string) (response_models.WizardView, error)
	View(ctx context.Context, sessionID string) (response_models.WizardView, error)
	SetAPIKey(ctx context.Context, sessionID, apiKey string) (response_models.WizardView, error)
	SubmitPreferences(ctx context.Context, sessionID, text string) (response_models.WizardView, error)
	SubmitSelection(ctx context.Context, sessionID, text string) (response_models.WizardView, error)
	PlanDay(ctx context.Context, sessionID string) (response_models.WizardView, error)
	Ask(ctx context.Context, sessionID, question string) (response_models.WizardView, error)
	Back(ctx context.Context, sessionID string) (response_models.WizardView, error)
	Restart(ctx context.Context, sessionID string) (response_models.WizardView, error)
	EndSession(ctx context.Context, sessionID string) error
}

type WizardServiceConfig struct {
	DefaultAPIKey string
	Provider      string
}

// WizardService is the host-facing side of the wizard: it loads the session,
// runs one stage-controller action on it, saves it back and renders the result.
type WizardService struct {
	repo    repositories.SessionRepository
	stages  *StageController
	busy    *busyGuard
	cfg     WizardServiceConfig
	metrics *metrics.Recorder
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewWizardService(
	repo repositories.SessionRepository,
	stages *StageController,
	cfg WizardServiceConfig,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *WizardService {
	return &WizardService{
		repo:    repo,
		stages:  stages,
		busy:    newBusyGuard(),
		cfg:     cfg,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock replaces the time source used for timestamps and the sidebar date.
func (w *WizardService) WithClock(now func() time.Time) *WizardService {
	w.now = now
	return w
}

func (w *WizardService) StartSession(ctx context.Context, apiKey string) (response_models.WizardView, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		key = w.cfg.DefaultAPIKey
	}

	s := session_models.NewSession(w.newID(), key, w.now())
	if err := w.repo.Save(ctx, s); err != nil {
		return response_models.WizardView{}, err
	}

	w.logger.Info("session started", zap.String("session_id", s.ID()), zap.Bool("api_key_set", s.HasAPIKey()))
	return w.render(s, Outcome{}), nil
}

func (w *WizardService) View(ctx context.Context, sessionID string) (response_models.WizardView, error) {
	s, err := w.repo.Load(ctx, sessionID)
	if err != nil {
		return response_models.WizardView{}, err
	}
	return w.render(s, Outcome{}), nil
}

func (w *WizardService) SetAPIKey(ctx context.Context, sessionID, apiKey string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionSetAPIKey, func(s *session_models.Session) (Outcome, error) {
		key := strings.TrimSpace(apiKey)
		if key == "" {
			return Outcome{}, fmt.Errorf("%w: please enter an API key", utils.ErrMissingInput)
		}
		s.SetAPIKey(key)
		return Outcome{}, nil
	})
}

func (w *WizardService) SubmitPreferences(ctx context.Context, sessionID, text string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionSubmitPreferences, func(s *session_models.Session) (Outcome, error) {
		return w.stages.SubmitPreferences(ctx, s, text)
	})
}

func (w *WizardService) SubmitSelection(ctx context.Context, sessionID, text string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionSubmitSelection, func(s *session_models.Session) (Outcome, error) {
		return w.stages.SubmitSelection(ctx, s, text)
	})
}

func (w *WizardService) PlanDay(ctx context.Context, sessionID string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionPlanDay, func(s *session_models.Session) (Outcome, error) {
		return w.stages.PlanDay(ctx, s)
	})
}

func (w *WizardService) Ask(ctx context.Context, sessionID, question string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionAsk, func(s *session_models.Session) (Outcome, error) {
		return w.stages.Ask(ctx, s, question)
	})
}

func (w *WizardService) Back(ctx context.Context, sessionID string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionBack, func(s *session_models.Session) (Outcome, error) {
		return Outcome{}, w.stages.Back(s)
	})
}

func (w *WizardService) Restart(ctx context.Context, sessionID string) (response_models.WizardView, error) {
	return w.apply(ctx, sessionID, response_models.ActionRestart, func(s *session_models.Session) (Outcome, error) {
		w.stages.Restart(s)
		return Outcome{}, nil
	})
}

func (w *WizardService) EndSession(ctx context.Context, sessionID string) error {
	if !w.busy.enter(sessionID) {
		return utils.ErrSessionBusy
	}
	defer w.busy.leave(sessionID)

	if err := w.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	w.logger.Info("session ended", zap.String("session_id", sessionID))
	return nil
}

// apply runs fn on a freshly loaded session while holding the session's busy
// flag. The session is written back only when fn succeeded without a notice,
// so failed model calls and rejected actions leave the stored state as it was.
func (w *WizardService) apply(
	ctx context.Context,
	sessionID, action string,
	fn func(s *session_models.Session) (Outcome, error),
) (response_models.WizardView, error) {
	if !w.busy.enter(sessionID) {
		w.metrics.ObserveRejection("busy")
		return response_models.WizardView{}, utils.ErrSessionBusy
	}
	defer w.busy.leave(sessionID)

	s, err := w.repo.Load(ctx, sessionID)
	if err != nil {
		return response_models.WizardView{}, err
	}

	from := s.Stage()
	out, err := fn(s)
	if err != nil {
		w.metrics.ObserveRejection(rejectionReason(err))
		w.logger.Info("action rejected",
			zap.String("session_id", sessionID),
			zap.String("action", action),
			zap.Stringer("stage", from),
			zap.Error(err),
		)
		return response_models.WizardView{}, err
	}

	if out.Notice == nil {
		s.Touch(w.now())
		if err := w.repo.Save(ctx, s); err != nil {
			return response_models.WizardView{}, err
		}
		if to := s.Stage(); to != from {
			w.metrics.ObserveTransition(from.String(), to.String())
		}
	}

	w.logger.Info("action applied",
		zap.String("session_id", sessionID),
		zap.String("action", action),
		zap.Stringer("from", from),
		zap.Stringer("to", s.Stage()),
		zap.Bool("failed", out.Notice != nil),
	)
	return w.render(s, out), nil
}

func (w *WizardService) render(s *session_models.Session, out Outcome) response_models.WizardView {
	v := Render(s, RenderOptions{Now: w.now(), Provider: w.cfg.Provider})
	if out.Notice != nil {
		v.Notice = out.Notice
	}
	v.Answer = out.Answer
	return v
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, utils.ErrMissingInput):
		return "missing_input"
	case errors.Is(err, utils.ErrMissingAPIKey):
		return "missing_api_key"
	case errors.Is(err, utils.ErrIllegalTransition):
		return "illegal_transition"
	default:
		return "other"
	}
}

// busyGuard marks sessions with an outstanding action. A second action on the
// same session is refused instead of queued, matching a disabled submit button.
type busyGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newBusyGuard() *busyGuard {
	return &busyGuard{active: make(map[string]struct{})}
}

func (g *busyGuard) enter(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.active[sessionID]; ok {
		return false
	}
	g.active[sessionID] = struct{}{}
	return true
}

func (g *busyGuard) leave(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, sessionID)
}
