package provider

// ChatMessage is one entry of the outbound messages array. The provider is
// stateless, so entry order alone establishes conversational context.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body POSTed to the chat completion endpoint.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}
