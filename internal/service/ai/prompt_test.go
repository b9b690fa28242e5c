package ai

import (
	"strings"
	"testing"
)

func TestBuildPersonaPromptComposition(t *testing.T) {
	persona := "You are a cheerful tavern keeper."
	prompt := BuildPersonaPrompt(persona)

	if !strings.HasPrefix(prompt, promptPrefix) {
		t.Fatalf("prompt does not start with the role-play preamble")
	}
	if !strings.HasSuffix(prompt, promptContract) {
		t.Fatalf("prompt does not end with the response-format contract")
	}
	if prompt != promptPrefix+persona+promptContract {
		t.Fatalf("persona text not spliced between prefix and contract")
	}
}

func TestBuildPersonaPromptContractNamesAllParameters(t *testing.T) {
	prompt := BuildPersonaPrompt("anyone")
	for _, param := range []string{"joy", "fun", "anger", "sad", "emotion", "message"} {
		if !strings.Contains(prompt, param) {
			t.Fatalf("contract is missing %q", param)
		}
	}
}

func TestBuildPersonaPromptDeterministic(t *testing.T) {
	if BuildPersonaPrompt("x") != BuildPersonaPrompt("x") {
		t.Fatal("expected identical output for identical input")
	}
}
