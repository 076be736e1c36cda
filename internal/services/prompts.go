package services

import (
	"fmt"
	"strings"
)

// Instructions sent to the model at each stage. The user's own text is quoted at
// the end so the model can tell instruction from preference.

func preferencesPrompt(userInput string) string {
	return fmt.Sprintf(`Recommend exactly 3 travel destinations that suit the user's travel preferences.
- First, summarize the preferences the user described.
- For each destination, explain why it fits, referring back to those preferences.
- Describe the climate, main attractions and typical activities of each destination.

User input: %s`, userInput)
}

func selectionPrompt(selection string) string {
	return fmt.Sprintf(`The user picked one of the 3 recommended destinations. State which destination was chosen and explain the reason for the choice.
- List exactly 5 main activities to enjoy at that destination.
- Make the activities span different categories, such as nature, history and food.

User input: %s`, selection)
}

const dayPlanPrompt = `The user will spend one day at this destination.
- Split the day into morning, afternoon and evening, and describe which activities suit each part of the day.`

type contextSection struct {
	title string
	body  string
}

func buildContext(sections ...contextSection) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### %s\n%s", s.title, s.body)
	}
	return b.String()
}

func selectionContext(userInput, recommendations string) string {
	return buildContext(
		contextSection{"User preferences", userInput},
		contextSection{"Recommended destinations", recommendations},
	)
}

func dayPlanContext(userInput, destination string) string {
	return buildContext(
		contextSection{"User preferences", userInput},
		contextSection{"Selected destination", destination},
	)
}

func questionContext(userInput, destination, itinerary string) string {
	return buildContext(
		contextSection{"User preferences", userInput},
		contextSection{"Selected destination", destination},
		contextSection{"Day plan", itinerary},
	)
}
