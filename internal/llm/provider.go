package llm

import "context"

// Provider defines the interface for chat-completion providers.
type Provider interface {
	// Complete sends a completion request and returns the full response,
	// which may carry tool calls instead of content.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Stream sends a completion request and returns a token stream. The
	// stream ends with io.EOF; cancelling ctx stops upstream generation.
	Stream(ctx context.Context, req CompletionRequest) (Stream, error)

	// Name returns the name of this provider.
	Name() string
}

// Stream is an ordered sequence of response text fragments delivered to
// exactly one consumer.
type Stream interface {
	// Recv returns the next text fragment, or io.EOF when the response is
	// complete.
	Recv() (string, error)

	// Close releases the underlying connection. Safe to call after an
	// error from Recv.
	Close() error
}
