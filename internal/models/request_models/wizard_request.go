package request_models

type CreateSessionRequest struct {
	APIKey string `json:"api_key,omitempty"`
}

type APIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// TextRequest carries the free text for preferences, selection and questions.
// Emptiness is checked by the wizard, which answers with a warning instead of 400.
type TextRequest struct {
	Text string `json:"text"`
}
