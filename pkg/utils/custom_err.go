package utils

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionBusy       = errors.New("session is busy with another request")
	ErrMissingInput      = errors.New("missing input")
	ErrMissingAPIKey     = errors.New("api key is not configured")
	ErrIllegalTransition = errors.New("action not allowed in current stage")
	ErrSessionStore      = errors.New("session store error")
	ErrEmptyCompletion   = errors.New("completion returned no content")
	ErrUnsupportedLLM    = errors.New("unsupported llm provider")
)
