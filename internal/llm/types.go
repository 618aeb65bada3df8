package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Tool describes a function the model may invoke instead of answering
// directly. Parameters is a JSON-schema object describing the argument
// shape.
type Tool struct {
	Name        string
	Description string
	Parameters  any
}

// ToolCall is a model-initiated request to invoke a declared tool.
type ToolCall struct {
	Name          string
	ArgumentsJSON string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	Tools       []Tool
}

// CompletionResponse contains the result of a completion request: either
// content, or one or more tool calls the caller must dispatch.
type CompletionResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}
