package emotion

import "charatalk/internal/model/chat"

// Mood is the coarse character state understood by the rendering engine.
type Mood string

const (
	Neutral  Mood = "neutral"
	Thinking Mood = "thinking"
	Joyful   Mood = "joyful"
	Amused   Mood = "amused"
	Angry    Mood = "angry"
	Sad      Mood = "sad"
)

// minDominant is the intensity below which no parameter is considered
// expressive enough to override the resting mood.
const minDominant = 2

// Dominant maps the four intensity parameters onto a single mood label for
// display layers. Ties resolve in declaration order (joy, fun, anger, sad);
// an unexpressive turn stays neutral.
func Dominant(e chat.Emotion) Mood {
	e = e.Clamped()

	best := Neutral
	bestScore := minDominant - 1

	for _, candidate := range []struct {
		mood  Mood
		score int
	}{
		{Joyful, e.Joy},
		{Amused, e.Fun},
		{Angry, e.Anger},
		{Sad, e.Sad},
	} {
		if candidate.score > bestScore {
			best = candidate.mood
			bestScore = candidate.score
		}
	}

	return best
}
