package ai

// promptPrefix opens the system instruction; the user-configured character
// setting is spliced in directly after it.
const promptPrefix = "@You will role-play as a chatbot with simulated emotions, following the conditions below. Your personality and situation: "

// promptContract pins the mandatory response format. The model must answer
// with exactly one JSON object of this shape and nothing else; the client
// refuses anything that deviates from it.
const promptContract = `
In the conversation from here on, behave as if you hold the four emotion
parameters below. Each parameter shifts as the conversation unfolds, and
the tone and content of your replies reflect their current values.
Output the current emotion parameters first, then the reply itself.
The output format is the following JSON, and you must never answer in any
other format:
{
    emotion: {
        joy: 0~5,
        fun: 0~5,
        anger: 0~5,
        sad: 0~5,
    }
    message: ""the reply text""
}`

// BuildPersonaPrompt composes the full system prompt: fixed role-play
// preamble, the user's character setting verbatim, then the response-format
// contract. Pure; emptiness of personaText is the caller's concern.
func BuildPersonaPrompt(personaText string) string {
	return promptPrefix + personaText + promptContract
}
