package terminal_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tripwizard/internal/models/response_models"
	"tripwizard/internal/repositories"
	"tripwizard/internal/services"
	"tripwizard/internal/terminal"
	"tripwizard/pkg/mock"
	"tripwizard/pkg/utils"
)

// recordingWizard remembers the id of the session the host started.
type recordingWizard struct {
	services.WizardServiceInterface
	sessionID string
}

func (r *recordingWizard) StartSession(ctx context.Context, apiKey string) (response_models.WizardView, error) {
	v, err := r.WizardServiceInterface.StartSession(ctx, apiKey)
	r.sessionID = v.SessionID
	return v, err
}

func travelChat() *mock.ChatCompleter {
	return &mock.ChatCompleter{
		CompleteChatFn: func(_ context.Context, req utils.ChatRequest) (string, error) {
			last := req.Messages[len(req.Messages)-1].Content
			switch {
			case strings.Contains(last, "sunny beach trip"):
				return "1. Bali\n2. Phuket\n3. Cancun", nil
			case strings.Contains(last, "I choose Bali"):
				return "You picked Bali.", nil
			case last == "best food?":
				return "Nasi goreng.", nil
			default:
				return "Morning surf, evening temple.", nil
			}
		},
	}
}

func newWizard(chat *mock.ChatCompleter) *recordingWizard {
	logger := zap.NewNop()
	rs := services.NewResponseService(chat.Factory(), services.ResponseServiceConfig{Provider: "openai"}, nil, logger)
	return &recordingWizard{WizardServiceInterface: services.NewWizardService(
		repositories.NewMemorySessionRepository(time.Hour),
		services.NewStageController(rs, logger),
		services.WizardServiceConfig{Provider: "openai"},
		nil,
		logger,
	)}
}

func TestHost_FullTrip(t *testing.T) {
	chat := travelChat()
	wizard := newWizard(chat)
	script := strings.Join([]string{
		"1", "sunny beach trip",
		"1", "I choose Bali",
		"1",
		"2", "best food?",
		"q",
	}, "\n") + "\n"
	var out bytes.Buffer

	err := terminal.NewHost(wizard, strings.NewReader(script), &out, zap.NewNop()).Run(context.Background(), "sk")

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Step 1: Tell us your travel preferences")
	assert.Contains(t, text, "**How to use**\n\n- Describe your travel preferences\n")
	assert.Contains(t, text, "1. Bali\n2. Phuket\n3. Cancun")
	assert.Contains(t, text, "You picked Bali.")
	assert.Contains(t, text, "Morning surf, evening temple.")
	assert.Contains(t, text, "### Answer\n\nNasi goreng.")
	assert.Contains(t, text, "Current step: 3/3")
	assert.Equal(t, 4, chat.Calls())

	_, err = wizard.View(context.Background(), wizard.sessionID)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestHost_WarningsKeepTheStage(t *testing.T) {
	chat := travelChat()
	wizard := newWizard(chat)
	script := "9\n1\n   \n2\nq\n"
	var out bytes.Buffer

	err := terminal.NewHost(wizard, strings.NewReader(script), &out, zap.NewNop()).Run(context.Background(), "sk")

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, `Unknown choice "9"`)
	assert.Contains(t, text, "! Please describe your travel preferences")
	assert.Contains(t, text, `Unknown choice "2"`)
	assert.Zero(t, chat.Calls())
}

func TestHost_SecretAPIKey(t *testing.T) {
	wizard := newWizard(travelChat())
	var out bytes.Buffer
	secretReads := 0

	host := terminal.NewHost(wizard, strings.NewReader("1\nq\n"), &out, zap.NewNop(),
		terminal.WithSecretReader(func() (string, error) {
			secretReads++
			return "sk-secret", nil
		}),
	)
	err := host.Run(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 1, secretReads)
	text := out.String()
	assert.Contains(t, text, "API settings")
	assert.Contains(t, text, "Step 1: Tell us your travel preferences")
	assert.NotContains(t, text, "sk-secret")
}

func TestHost_EndOfInputQuits(t *testing.T) {
	wizard := newWizard(travelChat())
	var out bytes.Buffer

	err := terminal.NewHost(wizard, strings.NewReader(""), &out, zap.NewNop()).Run(context.Background(), "sk")

	assert.NoError(t, err)
}

func TestMarkdown(t *testing.T) {
	v := response_models.WizardView{
		Title:  "AI Travel Recommendation Assistant",
		Header: "Step 2: Choose a destination",
		Sections: []response_models.ViewSection{
			{Title: "Recommended destinations", Body: "Bali"},
		},
		Actions: []response_models.ViewAction{
			{ID: response_models.ActionSubmitSelection, Label: "Confirm choice"},
			{ID: response_models.ActionBack, Label: "Previous step"},
		},
		Sidebar: response_models.Sidebar{
			Progress:     "Current step: 2/3",
			Date:         "2026-10-17 (Sat)",
			Description:  "Travel ideas on demand.",
			Instructions: []string{"Describe your travel preferences", "Pick a destination"},
		},
		Notice:  &response_models.Notice{Level: response_models.NoticeError, Text: services.FallbackText},
	}

	md := terminal.Markdown(v)

	assert.Contains(t, md, "## Step 2: Choose a destination")
	assert.Contains(t, md, "### Recommended destinations\n\nBali")
	assert.Contains(t, md, "_Current step: 2/3 · Today: 2026-10-17 (Sat)_")
	assert.Contains(t, md, "Travel ideas on demand.\n\n**How to use**\n\n- Describe your travel preferences\n- Pick a destination\n")
	assert.Contains(t, md, "> **Error:** "+services.FallbackText)
	assert.Contains(t, md, "1. Confirm choice\n2. Previous step\n")
}
