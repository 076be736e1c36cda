package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"tripwizard/internal/models/response_models"
	"tripwizard/internal/models/session_models"
	"tripwizard/pkg/utils"
)

// Outcome describes what an action produced besides the session changes.
type Outcome struct {
	// Notice is set when the model call failed; the session is unchanged.
	Notice *response_models.Notice
	// Answer carries the reply to a stage-3 question. It is never stored on the session.
	Answer string
}

// StageController drives the three-stage wizard. Each method validates the
// action against the current stage, builds the prompt, calls the response
// service and, only on success, writes the result and advances the stage.
type StageController struct {
	responses ResponseServiceInterface
	logger    *zap.Logger
}

func NewStageController(responses ResponseServiceInterface, logger *zap.Logger) *StageController {
	return &StageController{
		responses: responses,
		logger:    logger,
	}
}

func (c *StageController) SubmitPreferences(ctx context.Context, s *session_models.Session, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if err := ready(s, session_models.StagePreferences, text, "please describe your travel preferences"); err != nil {
		return Outcome{}, err
	}

	reply := c.responses.Generate(ctx, s.APIKey(), PromptRequest{
		Instruction: preferencesPrompt(text),
	}, s.History())
	if reply.Failed() {
		return failedOutcome(reply), nil
	}

	s.SetUserInput(text)
	s.SetRecommendations(reply.Text)
	return Outcome{}, c.advance(s, session_models.StageSelection)
}

func (c *StageController) SubmitSelection(ctx context.Context, s *session_models.Session, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if err := ready(s, session_models.StageSelection, text, "please choose a destination"); err != nil {
		return Outcome{}, err
	}

	reply := c.responses.Generate(ctx, s.APIKey(), PromptRequest{
		Instruction: selectionPrompt(text),
		Context:     selectionContext(s.UserInput(), s.Recommendations()),
	}, s.History())
	if reply.Failed() {
		return failedOutcome(reply), nil
	}

	s.SetSelectedDestination(reply.Text)
	return Outcome{}, c.advance(s, session_models.StageItinerary)
}

// PlanDay needs no free text: the instruction is fixed.
func (c *StageController) PlanDay(ctx context.Context, s *session_models.Session) (Outcome, error) {
	if err := readyAt(s, session_models.StageItinerary); err != nil {
		return Outcome{}, err
	}

	reply := c.responses.Generate(ctx, s.APIKey(), PromptRequest{
		Instruction: dayPlanPrompt,
		Context:     dayPlanContext(s.UserInput(), s.SelectedDestination()),
	}, s.History())
	if reply.Failed() {
		return failedOutcome(reply), nil
	}

	s.SetItinerary(reply.Text)
	return Outcome{}, nil
}

// Ask answers a follow-up question. The exchange lands in the history through
// the response service, but the answer itself is only returned for display.
func (c *StageController) Ask(ctx context.Context, s *session_models.Session, question string) (Outcome, error) {
	question = strings.TrimSpace(question)
	if err := ready(s, session_models.StageItinerary, question, "please type a question"); err != nil {
		return Outcome{}, err
	}

	reply := c.responses.Generate(ctx, s.APIKey(), PromptRequest{
		Instruction: question,
		Context:     questionContext(s.UserInput(), s.SelectedDestination(), s.Itinerary()),
	}, s.History())
	if reply.Failed() {
		return failedOutcome(reply), nil
	}
	return Outcome{Answer: reply.Text}, nil
}

func (c *StageController) Back(s *session_models.Session) error {
	from := s.Stage()
	if err := s.Back(); err != nil {
		return fmt.Errorf("%w: %s has no previous stage", utils.ErrIllegalTransition, from)
	}
	c.logger.Debug("stage back", zap.String("session_id", s.ID()), zap.Stringer("from", from), zap.Stringer("to", s.Stage()))
	return nil
}

func (c *StageController) Restart(s *session_models.Session) {
	s.Restart()
	c.logger.Debug("session restarted", zap.String("session_id", s.ID()))
}

func (c *StageController) advance(s *session_models.Session, to session_models.Stage) error {
	from := s.Stage()
	if err := s.SetStage(to); err != nil {
		return err
	}
	c.logger.Debug("stage advanced", zap.String("session_id", s.ID()), zap.Stringer("from", from), zap.Stringer("to", to))
	return nil
}

// readyAt checks the stage, then the credential. Neither check touches the session.
func readyAt(s *session_models.Session, want session_models.Stage) error {
	if s.Stage() != want {
		return fmt.Errorf("%w: expected %s stage, session is at %s", utils.ErrIllegalTransition, want, s.Stage())
	}
	if !s.HasAPIKey() {
		return utils.ErrMissingAPIKey
	}
	return nil
}

// ready is readyAt plus a required, already trimmed, text field.
func ready(s *session_models.Session, want session_models.Stage, text, missing string) error {
	if err := readyAt(s, want); err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("%w: %s", utils.ErrMissingInput, missing)
	}
	return nil
}

func failedOutcome(reply Reply) Outcome {
	return Outcome{Notice: &response_models.Notice{
		Level: response_models.NoticeError,
		Text:  reply.Text,
	}}
}
