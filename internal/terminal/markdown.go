package terminal

import (
	"fmt"
	"strings"

	"tripwizard/internal/models/response_models"
)

// Markdown lays a view out as one markdown document: sidebar facts and usage
// steps first, then the stage content, then the numbered action menu.
func Markdown(v response_models.WizardView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", v.Title)
	if v.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n\n", v.Subtitle)
	}

	sb := v.Sidebar
	meta := []string{sb.Progress}
	if sb.Date != "" {
		meta = append(meta, "Today: "+sb.Date)
	}
	if sb.Provider != "" {
		meta = append(meta, "Model: "+sb.Provider)
	}
	fmt.Fprintf(&b, "_%s_\n\n", strings.Join(meta, " · "))
	if sb.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", sb.Description)
	}
	if len(sb.Instructions) > 0 {
		b.WriteString("**How to use**\n\n")
		for _, step := range sb.Instructions {
			fmt.Fprintf(&b, "- %s\n", step)
		}
		b.WriteString("\n")
	}

	if v.Header != "" {
		fmt.Fprintf(&b, "## %s\n\n", v.Header)
	}

	for _, s := range v.Sections {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", s.Title, s.Body)
	}

	if v.Answer != "" {
		fmt.Fprintf(&b, "### Answer\n\n%s\n\n", v.Answer)
	}

	if v.Notice != nil {
		fmt.Fprintf(&b, "> **%s:** %s\n\n", noticeLabel(v.Notice.Level), v.Notice.Text)
	}

	for i, a := range v.Actions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Label)
	}
	fmt.Fprintf(&b, "\nType a number, or `%s` to quit.\n", quitCommand)

	return b.String()
}

func noticeLabel(level response_models.NoticeLevel) string {
	switch level {
	case response_models.NoticeError:
		return "Error"
	case response_models.NoticeWarning:
		return "Warning"
	default:
		return "Note"
	}
}
