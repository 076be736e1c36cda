package session_models

import (
	"errors"
	"fmt"
	"time"
)

type Stage int

const (
	StagePreferences Stage = 1
	StageSelection   Stage = 2
	StageItinerary   Stage = 3

	TotalStages = 3
)

var (
	ErrInvalidStage = errors.New("stage out of range")
	ErrNoPrevStage  = errors.New("no previous stage")
)

func (s Stage) Valid() bool {
	return s >= StagePreferences && s <= StageItinerary
}

func (s Stage) String() string {
	switch s {
	case StagePreferences:
		return "preferences"
	case StageSelection:
		return "selection"
	case StageItinerary:
		return "itinerary"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Session is the whole conversation for one user. Fields are only reachable
// through the setters below so the stage can never leave 1..3.
type Session struct {
	id                  string
	stage               Stage
	userInput           string
	recommendations     string
	selectedDestination string
	itinerary           string
	history             History
	apiKey              string
	createdAt           time.Time
	updatedAt           time.Time
}

func NewSession(id, apiKey string, now time.Time) *Session {
	return &Session{
		id:        id,
		stage:     StagePreferences,
		apiKey:    apiKey,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string { return s.id }
func (s *Session) Stage() Stage { return s.stage }
func (s *Session) UserInput() string { return s.userInput }
func (s *Session) Recommendations() string { return s.recommendations }
func (s *Session) SelectedDestination() string { return s.selectedDestination }
func (s *Session) Itinerary() string { return s.itinerary }
func (s *Session) APIKey() string { return s.apiKey }
func (s *Session) HasAPIKey() bool { return s.apiKey != "" }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// History exposes the rolling message log. Only the response client appends to it.
func (s *Session) History() *History { return &s.history }

func (s *Session) SetStage(stage Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStage, int(stage))
	}
	s.stage = stage
	return nil
}

func (s *Session) SetUserInput(v string) { s.userInput = v }
func (s *Session) SetRecommendations(v string) { s.recommendations = v }
func (s *Session) SetSelectedDestination(v string) { s.selectedDestination = v }
func (s *Session) SetItinerary(v string) { s.itinerary = v }
func (s *Session) SetAPIKey(v string) { s.apiKey = v }
func (s *Session) Touch(now time.Time) { s.updatedAt = now }

// Back moves one stage backwards and keeps every generated text, so going
// forward again shows the cached results.
func (s *Session) Back() error {
	if s.stage <= StagePreferences {
		return ErrNoPrevStage
	}
	s.stage--
	return nil
}

// Restart wipes the conversation. The API key stays: it belongs to the
// credential source, not to the trip being planned.
func (s *Session) Restart() {
	s.stage = StagePreferences
	s.userInput = ""
	s.recommendations = ""
	s.selectedDestination = ""
	s.itinerary = ""
	s.history = History{}
}

func (s *Session) Clone() *Session {
	cp := *s
	cp.history = History{messages: s.history.Messages()}
	return &cp
}

// Record is the flat, serializable form of a Session used by stores.
type Record struct {
	ID                  string    `json:"id"`
	Stage               int       `json:"stage"`
	UserInput           string    `json:"user_input"`
	Recommendations     string    `json:"recommendations"`
	SelectedDestination string    `json:"selected_destination"`
	Itinerary           string    `json:"itinerary"`
	History             []Message `json:"history"`
	APIKey              string    `json:"api_key,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (s *Session) ToRecord() Record {
	return Record{
		ID:                  s.id,
		Stage:               int(s.stage),
		UserInput:           s.userInput,
		Recommendations:     s.recommendations,
		SelectedDestination: s.selectedDestination,
		Itinerary:           s.itinerary,
		History:             s.history.Messages(),
		APIKey:              s.apiKey,
		CreatedAt:           s.createdAt,
		UpdatedAt:           s.updatedAt,
	}
}

func FromRecord(r Record) (*Session, error) {
	stage := Stage(r.Stage)
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStage, r.Stage)
	}
	msgs := make([]Message, len(r.History))
	copy(msgs, r.History)
	return &Session{
		id:                  r.ID,
		stage:               stage,
		userInput:           r.UserInput,
		recommendations:     r.Recommendations,
		selectedDestination: r.SelectedDestination,
		itinerary:           r.Itinerary,
		history:             History{messages: msgs},
		apiKey:              r.APIKey,
		createdAt:           r.CreatedAt,
		updatedAt:           r.UpdatedAt,
	}, nil
}
