package assist

import (
	"context"
	"time"

	"github.com/assureops/incident-desk/internal/pkg/ctxlog"
)

const chatInstruction = `You are a BT Support assistant. Help users with questions about BT services, broadband, hardware, and support. Keep answers short and practical.`

// chatFallback is shown when the assistant cannot answer.
const chatFallback = "Sorry, something went wrong. Please try again."

// Chatbot is the single-turn portal support assistant. Like the triage
// client it absorbs failures: the caller always gets a reply to render.
type Chatbot struct {
	generator Generator
	timeout   time.Duration
}

// NewChatbot creates a new chatbot.
func NewChatbot(generator Generator, timeout time.Duration) *Chatbot {
	return &Chatbot{generator: generator, timeout: timeout}
}

// Reply answers a single user question.
func (b *Chatbot) Reply(ctx context.Context, message string) string {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	reply, err := b.generator.Generate(ctx, chatInstruction, message)
	if err != nil || reply == "" {
		ctxlog.FromContext(ctx).Warn("chatbot reply failed", "error", err)
		recordChat("failure")
		return chatFallback
	}
	recordChat("success")
	return reply
}
