package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"tripwizard/internal/models/request_models"
	"tripwizard/internal/models/response_models"
	"tripwizard/internal/services"
	"tripwizard/pkg/utils"
)

type WizardController struct {
	wizard services.WizardServiceInterface
	logger *zap.Logger
}

func NewWizardController(wizard services.WizardServiceInterface, logger *zap.Logger) *WizardController {
	return &WizardController{
		wizard: wizard,
		logger: logger,
	}
}

// POST /sessions
func (w *WizardController) CreateSessionHandler(c *gin.Context) {
	var req request_models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := w.wizard.StartSession(c.Request.Context(), req.APIKey)
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, view, "Session created")
}

// GET /sessions/:id
func (w *WizardController) GetSessionHandler(c *gin.Context) {
	view, err := w.wizard.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// PUT /sessions/:id/api-key
func (w *WizardController) SetAPIKeyHandler(c *gin.Context) {
	var req request_models.APIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "api_key is required")
		return
	}
	view, err := w.wizard.SetAPIKey(c.Request.Context(), c.Param("id"), req.APIKey)
	w.respond(c, view, err, "API key saved")
}

// POST /sessions/:id/preferences
func (w *WizardController) SubmitPreferencesHandler(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	view, err := w.wizard.SubmitPreferences(c.Request.Context(), c.Param("id"), text)
	w.respond(c, view, err, "Recommendations ready")
}

// POST /sessions/:id/selection
func (w *WizardController) SubmitSelectionHandler(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	view, err := w.wizard.SubmitSelection(c.Request.Context(), c.Param("id"), text)
	w.respond(c, view, err, "Destination selected")
}

// POST /sessions/:id/itinerary
func (w *WizardController) PlanDayHandler(c *gin.Context) {
	view, err := w.wizard.PlanDay(c.Request.Context(), c.Param("id"))
	w.respond(c, view, err, "Day plan ready")
}

// POST /sessions/:id/questions
func (w *WizardController) AskHandler(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	view, err := w.wizard.Ask(c.Request.Context(), c.Param("id"), text)
	w.respond(c, view, err, "Answer ready")
}

// POST /sessions/:id/back
func (w *WizardController) BackHandler(c *gin.Context) {
	view, err := w.wizard.Back(c.Request.Context(), c.Param("id"))
	w.respond(c, view, err, "Moved to the previous step")
}

// POST /sessions/:id/restart
func (w *WizardController) RestartHandler(c *gin.Context) {
	view, err := w.wizard.Restart(c.Request.Context(), c.Param("id"))
	w.respond(c, view, err, "Started a new trip")
}

// DELETE /sessions/:id
func (w *WizardController) EndSessionHandler(c *gin.Context) {
	if err := w.wizard.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	utils.RespondSuccess(c, nil, "Session ended")
}

// respond sends the view. A failed model call still returns 200: the view is
// valid and its notice tells the user to retry.
func (w *WizardController) respond(c *gin.Context, view response_models.WizardView, err error, okMsg string) {
	if err != nil {
		utils.HandleServiceError(c, w.logger, err)
		return
	}
	if view.Notice != nil && view.Notice.Level == response_models.NoticeError {
		utils.RespondSuccess(c, view, view.Notice.Text)
		return
	}
	utils.RespondSuccess(c, view, okMsg)
}

func bindText(c *gin.Context) (string, bool) {
	var req request_models.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return "", false
	}
	return req.Text, true
}
