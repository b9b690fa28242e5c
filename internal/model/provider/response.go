package provider

import (
	"encoding/json"
	"fmt"

	"charatalk/internal/model/chat"
)

// Completion is the provider's success envelope.
type Completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice holds one generated alternative. Message.Content is itself a
// JSON-encoded string, not a nested object; see DecodeContent.
type Choice struct {
	Index        int        `json:"index"`
	FinishReason string     `json:"finish_reason"`
	Message      RawMessage `json:"message"`
}

// RawMessage is the not-yet-decoded assistant message inside a choice.
type RawMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports the provider's token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// DecodeContent performs the second decode stage: the inner emotion+message
// document embedded as a JSON string in a choice. Both fields must be
// present; intensities are clamped into their allowed range.
func DecodeContent(raw string) (chat.Content, error) {
	var doc struct {
		Emotion *chat.Emotion `json:"emotion"`
		Message *string       `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return chat.Content{}, fmt.Errorf("decoding inner content: %w", err)
	}
	if doc.Emotion == nil || doc.Message == nil {
		return chat.Content{}, fmt.Errorf("inner content missing emotion or message field")
	}
	return chat.Content{
		Emotion: doc.Emotion.Clamped(),
		Message: *doc.Message,
	}, nil
}
