package llm

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens bounds the length of the generated answer.
	// If 0, the parameter is omitted and the server default applies.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// If 0, the parameter is omitted and the server default applies.
	Temperature float32
}
