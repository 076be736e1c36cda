package response_models

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

const (
	ActionSetAPIKey         = "set_api_key"
	ActionSubmitPreferences = "submit_preferences"
	ActionSubmitSelection   = "submit_selection"
	ActionPlanDay           = "plan_day"
	ActionAsk               = "ask"
	ActionBack              = "back"
	ActionRestart           = "restart"
)

type ViewAction struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	NeedsInput bool   `json:"needs_input"`
}

type ViewSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type InputField struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Secret      bool   `json:"secret,omitempty"`
}

type Sidebar struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Date         string   `json:"date"`
	Progress     string   `json:"progress"`
	Provider     string   `json:"provider"`
	APIKeySet    bool     `json:"api_key_set"`
	Instructions []string `json:"instructions"`
}

// WizardView is everything a host needs to draw the current screen.
type WizardView struct {
	SessionID   string        `json:"session_id"`
	Stage       int           `json:"stage"`
	TotalStages int           `json:"total_stages"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Header      string        `json:"header"`
	Sections    []ViewSection `json:"sections"`
	Input       *InputField   `json:"input,omitempty"`
	Actions     []ViewAction  `json:"actions"`
	Sidebar     Sidebar       `json:"sidebar"`
	Notice      *Notice       `json:"notice,omitempty"`
	Answer      string        `json:"answer,omitempty"`
}

// Action looks up an action offered by the view.
func (v WizardView) Action(id string) (ViewAction, bool) {
	for _, a := range v.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return ViewAction{}, false
}
