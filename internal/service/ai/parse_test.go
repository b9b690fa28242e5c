package ai

import (
	"encoding/json"
	"testing"
)

func successEnvelope(t *testing.T, innerContent string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": innerContent,
				},
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	})
	if err != nil {
		t.Fatalf("building envelope: %v", err)
	}
	return raw
}

func TestParseCompletionProviderError(t *testing.T) {
	raw := []byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`)

	outcome := ParseCompletion(raw)
	if outcome.Kind != OutcomeProviderError {
		t.Fatalf("expected provider error outcome, got %v", outcome.Kind)
	}
	if outcome.ErrorMessage != "bad key" {
		t.Fatalf("expected error message 'bad key', got %q", outcome.ErrorMessage)
	}
}

func TestParseCompletionValidInnerPayload(t *testing.T) {
	inner := `{"emotion":{"joy":3,"fun":1,"anger":0,"sad":0},"message":"hello"}`
	outcome := ParseCompletion(successEnvelope(t, inner))

	if outcome.Kind != OutcomeMessage {
		t.Fatalf("expected message outcome, got %v", outcome.Kind)
	}
	if outcome.RawContent != inner {
		t.Fatalf("raw content not preserved: %q", outcome.RawContent)
	}
	if outcome.Content.Emotion.Joy != 3 || outcome.Content.Emotion.Fun != 1 {
		t.Fatalf("unexpected emotion: %+v", outcome.Content.Emotion)
	}
	if outcome.Content.Message != "hello" {
		t.Fatalf("unexpected message text: %q", outcome.Content.Message)
	}
}

func TestParseCompletionMalformedInnerPayload(t *testing.T) {
	inner := "I refuse to answer in JSON today."
	outcome := ParseCompletion(successEnvelope(t, inner))

	if outcome.Kind != OutcomeMalformedContent {
		t.Fatalf("expected malformed content outcome, got %v", outcome.Kind)
	}
	// The raw text still travels so the rendering engine can try its own
	// lenient parse.
	if outcome.RawContent != inner {
		t.Fatalf("raw content not preserved: %q", outcome.RawContent)
	}
}

func TestParseCompletionInnerMissingFields(t *testing.T) {
	outcome := ParseCompletion(successEnvelope(t, `{"emotion":{"joy":1}}`))
	if outcome.Kind != OutcomeMalformedContent {
		t.Fatalf("expected malformed content for missing message field, got %v", outcome.Kind)
	}
}

func TestParseCompletionClampsIntensities(t *testing.T) {
	inner := `{"emotion":{"joy":9,"fun":-2,"anger":5,"sad":0},"message":"whoa"}`
	outcome := ParseCompletion(successEnvelope(t, inner))

	if outcome.Kind != OutcomeMessage {
		t.Fatalf("expected message outcome, got %v", outcome.Kind)
	}
	e := outcome.Content.Emotion
	if e.Joy != 5 || e.Fun != 0 || e.Anger != 5 || e.Sad != 0 {
		t.Fatalf("intensities not clamped: %+v", e)
	}
}

func TestParseCompletionErrorTakesPriority(t *testing.T) {
	// An HTTP-200 validation failure can resemble half a completion; the
	// error envelope must win so it never renders as a chat message.
	raw := []byte(`{"error":{"message":"model overloaded","type":"server_error"},"id":"x","choices":[]}`)

	outcome := ParseCompletion(raw)
	if outcome.Kind != OutcomeProviderError {
		t.Fatalf("expected provider error to take priority, got %v", outcome.Kind)
	}
}

func TestParseCompletionUndecodable(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":      "<html>gateway timeout</html>",
		"empty object":  "{}",
		"empty choices": `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[],"usage":{}}`,
	} {
		outcome := ParseCompletion([]byte(raw))
		if outcome.Kind != OutcomeUndecodable {
			t.Fatalf("%s: expected undecodable outcome, got %v", name, outcome.Kind)
		}
	}
}
