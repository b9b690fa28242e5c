package ai

import (
	"charatalk/internal/model/chat"
	"charatalk/internal/model/provider"
)

// SerializeMessages converts the conversation into the provider's wire
// format: the persona prompt as the leading system entry, every historical
// turn in original order, then the new user utterance last. Only role and
// plain text travel; emotion parameters are local state the provider never
// reads back. Nothing is reordered or deduplicated; the provider is
// stateless and order alone carries the context.
func SerializeMessages(history []chat.Message, personaPrompt, newUserText string) []provider.ChatMessage {
	serialized := make([]provider.ChatMessage, 0, len(history)+2)

	serialized = append(serialized, provider.ChatMessage{
		Role:    string(chat.RoleSystem),
		Content: personaPrompt,
	})

	for _, msg := range history {
		serialized = append(serialized, provider.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content.Message,
		})
	}

	return append(serialized, provider.ChatMessage{
		Role:    string(chat.RoleUser),
		Content: newUserText,
	})
}
