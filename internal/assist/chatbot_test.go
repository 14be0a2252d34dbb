package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChatbot_Reply(t *testing.T) {
	generator := &fakeGenerator{replies: []string{"Restart the ONT and check the LOS light."}}
	bot := NewChatbot(generator, time.Second)

	reply := bot.Reply(context.Background(), "My broadband is down, what should I try?")
	assert.Equal(t, "Restart the ONT and check the LOS light.", reply)
}

func TestChatbot_Reply_FallbackOnError(t *testing.T) {
	generator := &fakeGenerator{errs: []error{errors.New("upstream unavailable")}}
	bot := NewChatbot(generator, time.Second)

	reply := bot.Reply(context.Background(), "hello")
	assert.Equal(t, chatFallback, reply)
}

func TestChatbot_Reply_FallbackOnEmptyCompletion(t *testing.T) {
	generator := &fakeGenerator{replies: []string{""}}
	bot := NewChatbot(generator, time.Second)

	reply := bot.Reply(context.Background(), "hello")
	assert.Equal(t, chatFallback, reply)
}
