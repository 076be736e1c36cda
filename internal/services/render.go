package services

import (
	"fmt"
	"time"

	"tripwizard/internal/models/response_models"
	"tripwizard/internal/models/session_models"
	"tripwizard/pkg/utils"
)

const (
	wizardTitle    = "AI Travel Recommendation Assistant"
	wizardSubtitle = "Tell us your travel preferences and we will recommend destinations tailored to you!"
	sidebarBlurb   = "A personalised travel recommendation service powered by a large language model."
)

var howToUse = []string{
	"Describe your travel preferences",
	"Pick one of the destinations the assistant recommends",
	"Get a one-day plan for the chosen destination",
	"Ask follow-up questions at any time",
}

type RenderOptions struct {
	Now      time.Time
	Provider string
}

// Render is a pure function of the session: it never calls the model, so
// rendering the same session twice yields the same view.
func Render(s *session_models.Session, opts RenderOptions) response_models.WizardView {
	v := response_models.WizardView{
		SessionID:   s.ID(),
		Stage:       int(s.Stage()),
		TotalStages: session_models.TotalStages,
		Title:       wizardTitle,
		Subtitle:    wizardSubtitle,
		Sections:    []response_models.ViewSection{},
		Actions:     []response_models.ViewAction{},
		Sidebar: response_models.Sidebar{
			Title:        wizardTitle,
			Description:  sidebarBlurb,
			Date:         utils.FormatDisplayDate(opts.Now),
			Progress:     fmt.Sprintf("Current step: %d/%d", int(s.Stage()), session_models.TotalStages),
			Provider:     opts.Provider,
			APIKeySet:    s.HasAPIKey(),
			Instructions: append([]string(nil), howToUse...),
		},
	}

	if !s.HasAPIKey() {
		v.Header = "API settings"
		v.Notice = &response_models.Notice{
			Level: response_models.NoticeWarning,
			Text:  "Please enter your API key. It is kept for this session only.",
		}
		v.Input = &response_models.InputField{Label: "API key", Secret: true}
		v.Actions = append(v.Actions, response_models.ViewAction{
			ID: response_models.ActionSetAPIKey, Label: "Save API key", NeedsInput: true,
		})
		return v
	}

	switch s.Stage() {
	case session_models.StagePreferences:
		v.Header = "Step 1: Tell us your travel preferences"
		v.Input = &response_models.InputField{
			Label:       "Describe your travel preferences in detail (e.g. preferred weather, activities, food, budget)",
			Placeholder: "I'm planning a summer holiday. I like warm weather and enjoy nature and historic sites. Which destinations would suit me?",
		}
		v.Actions = append(v.Actions, response_models.ViewAction{
			ID: response_models.ActionSubmitPreferences, Label: "Get recommendations", NeedsInput: true,
		})

	case session_models.StageSelection:
		v.Header = "Step 2: Choose a destination"
		v.Sections = append(v.Sections,
			response_models.ViewSection{Title: "Your travel preferences", Body: s.UserInput()},
			response_models.ViewSection{Title: "Recommended destinations", Body: s.Recommendations()},
		)
		v.Input = &response_models.InputField{
			Label:       "Pick one of the destinations above and tell us why",
			Placeholder: "I'd like Tuscany, Italy, because I love wine and historic places.",
		}
		v.Actions = append(v.Actions,
			response_models.ViewAction{ID: response_models.ActionSubmitSelection, Label: "Confirm choice", NeedsInput: true},
			response_models.ViewAction{ID: response_models.ActionBack, Label: "Previous step"},
		)

	case session_models.StageItinerary:
		v.Header = "Step 3: Get a day plan"
		v.Sections = append(v.Sections,
			response_models.ViewSection{Title: "Selected destination", Body: s.SelectedDestination()},
		)
		if s.Itinerary() != "" {
			v.Sections = append(v.Sections,
				response_models.ViewSection{Title: "One-day plan", Body: s.Itinerary()},
			)
		}
		v.Input = &response_models.InputField{
			Label:       "Any other questions? Type them here",
			Placeholder: "Which dishes should I not miss at this destination?",
		}
		v.Actions = append(v.Actions,
			response_models.ViewAction{ID: response_models.ActionPlanDay, Label: "Plan a day"},
			response_models.ViewAction{ID: response_models.ActionAsk, Label: "Ask", NeedsInput: true},
			response_models.ViewAction{ID: response_models.ActionRestart, Label: "Plan a new trip"},
			response_models.ViewAction{ID: response_models.ActionBack, Label: "Previous step"},
		)
	}

	return v
}
