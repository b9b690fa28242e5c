package ai

import (
	"encoding/json"

	"charatalk/internal/model/chat"
	"charatalk/internal/model/provider"
)

// OutcomeKind names the terminal classification of a raw provider payload.
type OutcomeKind int

const (
	// OutcomeProviderError: the payload is the provider's error envelope.
	OutcomeProviderError OutcomeKind = iota
	// OutcomeMessage: success envelope with a valid inner emotion+message
	// document.
	OutcomeMessage
	// OutcomeMalformedContent: success envelope, but the embedded content
	// string is not a valid emotion+message document.
	OutcomeMalformedContent
	// OutcomeUndecodable: the payload matches neither recognized envelope.
	OutcomeUndecodable
)

// Outcome is the decoded classification of one completion response.
// RawContent is set whenever the outer success envelope decoded, including
// the malformed-content branch, so the rendering engine can still receive
// the text best effort.
type Outcome struct {
	Kind         OutcomeKind
	ErrorMessage string
	RawContent   string
	Content      chat.Content
}

// ParseCompletion classifies a raw payload, first match wins:
//  1. error envelope. It takes priority, because the provider can answer a
//     validation failure with a body that also half-resembles a completion
//     and it must never render as a chat message;
//  2. success envelope with at least one choice, whose content string is
//     decoded a second time into the emotion+message document;
//  3. neither, which is undecodable.
func ParseCompletion(raw []byte) Outcome {
	var errEnv provider.ErrorEnvelope
	if err := json.Unmarshal(raw, &errEnv); err == nil && errEnv.Error != nil {
		return Outcome{Kind: OutcomeProviderError, ErrorMessage: errEnv.Error.Message}
	}

	var completion provider.Completion
	if err := json.Unmarshal(raw, &completion); err == nil && len(completion.Choices) > 0 {
		rawContent := completion.Choices[0].Message.Content

		content, err := provider.DecodeContent(rawContent)
		if err != nil {
			return Outcome{Kind: OutcomeMalformedContent, RawContent: rawContent}
		}

		return Outcome{Kind: OutcomeMessage, RawContent: rawContent, Content: content}
	}

	return Outcome{Kind: OutcomeUndecodable}
}
