package session_models

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is append-only for the lifetime of a session; Restart replaces it wholesale.
type History struct {
	messages []Message
}

func (h *History) Len() int { return len(h.messages) }

// Messages returns a copy, callers cannot rewrite past turns.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Append(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
}
