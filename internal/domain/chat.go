package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatHistory keeps the system message apart from the conversation turns
// so it cannot be displaced or dropped by appends.
type ChatHistory struct {
	System ChatMessage
	Turns  []ChatMessage
}

func NewChatHistory(systemPrompt string) ChatHistory {
	return ChatHistory{System: ChatMessage{Role: RoleSystem, Content: systemPrompt}}
}

// Messages returns the system message followed by every turn.
func (h ChatHistory) Messages() []ChatMessage {
	return h.Window(0)
}

// Window returns the system message followed by the last limit turns.
// A limit of 0 or less means no limit.
func (h ChatHistory) Window(limit int) []ChatMessage {
	turns := h.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]ChatMessage, 0, len(turns)+1)
	out = append(out, h.System)
	return append(out, turns...)
}

// Clone returns a copy that shares no backing array with h.
func (h ChatHistory) Clone() ChatHistory {
	turns := make([]ChatMessage, len(h.Turns))
	copy(turns, h.Turns)
	return ChatHistory{System: h.System, Turns: turns}
}
