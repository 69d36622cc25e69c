package coach

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lildude/fitpal/internal/fitness"
	"github.com/openai/openai-go/v2"
)

// Chat is a conversation seeded with a system instruction and prior history.
type Chat struct {
	client *Client
	system string

	mu      sync.Mutex
	history []fitness.ChatMessage
}

// StartChat opens a conversation. history is copied.
func (c *Client) StartChat(systemInstruction string, history []fitness.ChatMessage) *Chat {
	return &Chat{
		client:  c,
		system:  systemInstruction,
		history: append([]fitness.ChatMessage{}, history...),
	}
}

func (ch *Chat) messages(next string) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(ch.history)+2)
	msgs = append(msgs, openai.SystemMessage(ch.system))
	for _, m := range ch.history {
		switch m.Role {
		case fitness.RoleModel:
			msgs = append(msgs, openai.AssistantMessage(m.Text()))
		default:
			msgs = append(msgs, openai.UserMessage(m.Text()))
		}
	}
	return append(msgs, openai.UserMessage(next))
}

// Send streams the reply to message, calling onChunk with each piece of text
// as it arrives, and returns the full reply. The exchange is added to the
// history only when the stream completes.
func (ch *Chat) Send(ctx context.Context, message string, onChunk func(string)) (string, error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	stream := ch.client.api.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    ch.client.model,
		Messages: ch.messages(message),
	})
	defer stream.Close()

	var reply strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		text := chunk.Choices[0].Delta.Content
		if text == "" {
			continue
		}
		reply.WriteString(text)
		if onChunk != nil {
			onChunk(text)
		}
	}
	if err := stream.Err(); err != nil {
		ch.client.log.WithError(err).Error("chat stream failed")
		return "", fmt.Errorf("chat stream: %w", err)
	}

	ch.history = append(ch.history,
		fitness.NewChatMessage(fitness.RoleUser, message),
		fitness.NewChatMessage(fitness.RoleModel, reply.String()),
	)
	return reply.String(), nil
}

// History returns a copy of the conversation so far.
func (ch *Chat) History() []fitness.ChatMessage {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return append([]fitness.ChatMessage{}, ch.history...)
}
