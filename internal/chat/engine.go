package chat

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/datachat-ai/datachat/internal/llm"
)

// Engine answers chat queries over retrieved context. Document queries
// stream a grounded completion; dataset queries go through a tool-calling
// round first so the model can request an analytic computation.
type Engine struct {
	provider       llm.Provider
	sessions       *SessionStore
	resolveDataset func() (string, error)
	model          string
	temperature    float32
}

func NewEngine(provider llm.Provider, sessions *SessionStore, resolveDataset func() (string, error), model string, temperature float32) *Engine {
	return &Engine{
		provider:       provider,
		sessions:       sessions,
		resolveDataset: resolveDataset,
		model:          model,
		temperature:    temperature,
	}
}

// Answer streams an answer to a document query grounded on the retrieved
// chunks. The user turn is recorded before streaming starts; the assistant
// turn is recorded only once the stream completes. A cancelled context
// discards the partial answer.
func (e *Engine) Answer(ctx context.Context, sessionID, query string, chunks []string) (<-chan string, error) {
	history := e.sessions.History(sessionID)
	messages := documentMessages(chunks, history, query)

	stream, err := e.provider.Stream(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: e.temperature,
	})
	if err != nil {
		return nil, err
	}

	e.sessions.Append(sessionID, llm.Message{Role: llm.RoleUser, Content: query})

	out := make(chan string)
	go e.relay(ctx, sessionID, stream, out)
	return out, nil
}

// AnswerWithTools streams an answer to a dataset query. The model is first
// offered the analytic tools; if it calls one, the computation runs locally
// and the model is asked to explain the result in a second, streamed turn.
// A failed tool call yields a single error fragment and records nothing.
func (e *Engine) AnswerWithTools(ctx context.Context, sessionID, query string, chunks []string) (<-chan string, error) {
	history := e.sessions.History(sessionID)
	messages := datasetMessages(chunks, history, query)

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: e.temperature,
		Tools:       toolDefinitions(),
	})
	if err != nil {
		return nil, err
	}

	e.sessions.Append(sessionID, llm.Message{Role: llm.RoleUser, Content: query})

	out := make(chan string)

	if len(resp.ToolCalls) == 0 {
		go func() {
			defer close(out)
			select {
			case out <- resp.Content:
				e.sessions.Append(sessionID, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
			case <-ctx.Done():
			}
		}()
		return out, nil
	}

	call := resp.ToolCalls[0]
	outcome, err := dispatchTool(call, e.resolveDataset, query)
	if err != nil {
		log.Printf("tool call %s failed: %v", call.Name, err)
		msg := "Error processing tool call: " + err.Error()
		go func() {
			defer close(out)
			select {
			case out <- msg:
			case <-ctx.Done():
			}
		}()
		return out, nil
	}

	stream, err := e.provider.Stream(ctx, llm.CompletionRequest{
		Model:       e.model,
		Messages:    outcome.FollowUp,
		Temperature: e.temperature,
	})
	if err != nil {
		close(out)
		return nil, err
	}

	go e.relay(ctx, sessionID, stream, out)
	return out, nil
}

// relay pumps stream fragments into out and records the assembled assistant
// turn once the stream ends cleanly.
func (e *Engine) relay(ctx context.Context, sessionID string, stream llm.Stream, out chan<- string) {
	defer close(out)
	defer stream.Close()

	var full strings.Builder
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			e.sessions.Append(sessionID, llm.Message{Role: llm.RoleAssistant, Content: full.String()})
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("completion stream interrupted: %v", err)
			}
			return
		}
		select {
		case out <- fragment:
			full.WriteString(fragment)
		case <-ctx.Done():
			return
		}
	}
}
