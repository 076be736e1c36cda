package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripwizard/internal/models/response_models"
	"tripwizard/internal/repositories"
	"tripwizard/internal/services"
	"tripwizard/pkg/metrics"
	"tripwizard/pkg/mock"
	"tripwizard/pkg/utils"
)

type wizardFixture struct {
	svc  *services.WizardService
	repo *repositories.MemorySessionRepository
	chat *mock.ChatCompleter
	reg  *prometheus.Registry
}

func newWizard(t *testing.T, chat *mock.ChatCompleter, defaultKey string) wizardFixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	repo := repositories.NewMemorySessionRepository(time.Hour)
	rs := services.NewResponseService(chat.Factory(), services.ResponseServiceConfig{Provider: "openai"}, rec, zap.NewNop())
	svc := services.NewWizardService(
		repo,
		services.NewStageController(rs, zap.NewNop()),
		services.WizardServiceConfig{DefaultAPIKey: defaultKey, Provider: "openai"},
		rec,
		zap.NewNop(),
	).WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) })
	return wizardFixture{svc: svc, repo: repo, chat: chat, reg: reg}
}

func TestWizardService_StartSession(t *testing.T) {
	t.Run("explicit key", func(t *testing.T) {
		f := newWizard(t, mock.Replying("x"), "")

		v, err := f.svc.StartSession(context.Background(), "  sk-user  ")

		require.NoError(t, err)
		assert.NotEmpty(t, v.SessionID)
		assert.Equal(t, 1, v.Stage)
		assert.True(t, v.Sidebar.APIKeySet)

		s, err := f.repo.Load(context.Background(), v.SessionID)
		require.NoError(t, err)
		assert.Equal(t, "sk-user", s.APIKey())
	})

	t.Run("falls back to the configured key", func(t *testing.T) {
		f := newWizard(t, mock.Replying("x"), "sk-env")

		v, err := f.svc.StartSession(context.Background(), "")

		require.NoError(t, err)
		assert.True(t, v.Sidebar.APIKeySet)
	})

	t.Run("no key at all shows the setup view", func(t *testing.T) {
		f := newWizard(t, mock.Replying("x"), "")

		v, err := f.svc.StartSession(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, []string{response_models.ActionSetAPIKey}, actionIDs(v))
	})
}

func TestWizardService_SetAPIKey(t *testing.T) {
	f := newWizard(t, mock.Replying("x"), "")
	ctx := context.Background()
	v, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	_, err = f.svc.SetAPIKey(ctx, v.SessionID, "   ")
	assert.ErrorIs(t, err, utils.ErrMissingInput)

	_, err = f.svc.SubmitPreferences(ctx, v.SessionID, "beach")
	assert.ErrorIs(t, err, utils.ErrMissingAPIKey)

	v, err = f.svc.SetAPIKey(ctx, v.SessionID, "sk-new")
	require.NoError(t, err)
	assert.Equal(t, []string{response_models.ActionSubmitPreferences}, actionIDs(v))
}

func TestWizardService_FlowPersists(t *testing.T) {
	f := newWizard(t, mock.Replying("generated"), "sk")
	ctx := context.Background()

	v, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	id := v.SessionID

	v, err = f.svc.SubmitPreferences(ctx, id, "sunny beach trip")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Stage)

	v, err = f.svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Stage)
	assert.Equal(t, "sunny beach trip", v.Sections[0].Body)

	_, err = f.svc.SubmitSelection(ctx, id, "I choose Bali")
	require.NoError(t, err)
	_, err = f.svc.PlanDay(ctx, id)
	require.NoError(t, err)

	v, err = f.svc.Ask(ctx, id, "best food?")
	require.NoError(t, err)
	assert.Equal(t, "generated", v.Answer)

	v, err = f.svc.View(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, v.Answer)
	assert.Equal(t, 3, v.Stage)

	v, err = f.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Stage)

	v, err = f.svc.Restart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Stage)

	s, err := f.repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, s.History().Len())
	assert.Empty(t, s.UserInput())

	// preferences->selection, selection->itinerary, back, restart
	n, err := testutil.GatherAndCount(f.reg, "tripwizard_stage_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWizardService_FailedCallIsNotSaved(t *testing.T) {
	f := newWizard(t, mock.Failing(errors.New("upstream down")), "sk")
	ctx := context.Background()
	v, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	v, err = f.svc.SubmitPreferences(ctx, v.SessionID, "beach")

	require.NoError(t, err)
	require.NotNil(t, v.Notice)
	assert.Equal(t, response_models.NoticeError, v.Notice.Level)
	assert.Equal(t, services.FallbackText, v.Notice.Text)
	assert.Equal(t, 1, v.Stage)

	s, err := f.repo.Load(ctx, v.SessionID)
	require.NoError(t, err)
	assert.Empty(t, s.UserInput())
	assert.Zero(t, s.History().Len())
}

func TestWizardService_UnknownSession(t *testing.T) {
	f := newWizard(t, mock.Replying("x"), "sk")

	_, err := f.svc.View(context.Background(), "missing")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)

	_, err = f.svc.SubmitPreferences(context.Background(), "missing", "beach")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestWizardService_IllegalBack(t *testing.T) {
	f := newWizard(t, mock.Replying("x"), "sk")
	v, err := f.svc.StartSession(context.Background(), "")
	require.NoError(t, err)

	_, err = f.svc.Back(context.Background(), v.SessionID)

	assert.ErrorIs(t, err, utils.ErrIllegalTransition)
	n, err := testutil.GatherAndCount(f.reg, "tripwizard_rejected_actions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWizardService_BusySession(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	chat := &mock.ChatCompleter{
		CompleteChatFn: func(context.Context, utils.ChatRequest) (string, error) {
			close(started)
			<-release
			return "Bali, Crete, Okinawa", nil
		},
	}
	f := newWizard(t, chat, "sk")
	ctx := context.Background()
	v, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)
	id := v.SessionID

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.SubmitPreferences(ctx, id, "beach")
		done <- err
	}()
	<-started

	_, err = f.svc.SubmitPreferences(ctx, id, "mountains")
	assert.ErrorIs(t, err, utils.ErrSessionBusy)
	_, err = f.svc.Restart(ctx, id)
	assert.ErrorIs(t, err, utils.ErrSessionBusy)

	close(release)
	require.NoError(t, <-done)

	v, err = f.svc.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Stage)
	assert.Equal(t, 1, chat.Calls())
}

func TestWizardService_EndSession(t *testing.T) {
	f := newWizard(t, mock.Replying("x"), "sk")
	ctx := context.Background()
	v, err := f.svc.StartSession(ctx, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.EndSession(ctx, v.SessionID))

	_, err = f.svc.View(ctx, v.SessionID)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}
