package chat

import "time"

// Role identifies the author of a message in provider terms.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Emotion carries the four bounded intensity parameters reported by the
// character model. Each value lives in the closed range [0,5].
type Emotion struct {
	Joy   int `json:"joy"`
	Fun   int `json:"fun"`
	Anger int `json:"anger"`
	Sad   int `json:"sad"`
}

// Clamped returns a copy with every intensity forced into [0,5].
func (e Emotion) Clamped() Emotion {
	return Emotion{
		Joy:   clampIntensity(e.Joy),
		Fun:   clampIntensity(e.Fun),
		Anger: clampIntensity(e.Anger),
		Sad:   clampIntensity(e.Sad),
	}
}

func clampIntensity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// Content pairs the spoken text with the emotion parameters of the turn.
// User-authored turns carry an all-zero emotion.
type Content struct {
	Emotion Emotion `json:"emotion"`
	Message string  `json:"message"`
}

// Message is one immutable conversation turn. Slice order is conversation
// order; once appended a message is never edited.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
