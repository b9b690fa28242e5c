package render

// Bridge is the one-way notification sink for the external rendering
// engine. The talk core only writes to it, fire-and-forget; it never reads
// state back and a bridge failure never affects a conversation outcome.
type Bridge interface {
	// SetMood switches the character's animation state ("thinking",
	// "neutral", ...).
	SetMood(mood string)
	// PerformUtterance hands the raw emotion+message JSON to the engine so
	// it can voice and animate the line. The payload is forwarded verbatim,
	// best effort, even when local decoding of the same text fails.
	PerformUtterance(rawJSON string)
}

// NopBridge discards every notification. Used when no rendering engine is
// attached and as the default in tests.
type NopBridge struct{}

func (NopBridge) SetMood(string)          {}
func (NopBridge) PerformUtterance(string) {}
