package assist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompletion = "```json\n" + `{
	"suggestedCI": "EAL-04-FIBER-RACK",
	"kbKeywords": ["LOS", "fiber", "duct damage"],
	"faultAnalysis": "Likely physical break in the spine feeding EAL-04.",
	"suggestedNextAction": "Dispatch a field engineer for a site survey.",
	"inferredTasks": [{"taskType": "Site survey", "assignmentGroup": "Field Operations"}],
	"serviceType": "Consumer"
}` + "\n```"

// fakeGenerator scripts completions per call and records prompts.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
	calls   int

	// block, when set, gates each call until a value is received.
	block chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, _, prompt string) (string, error) {
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)

	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.replies) {
		return g.replies[i], nil
	}
	return "", errors.New("fakeGenerator: no scripted reply")
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func testClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   time.Second,
		RateLimit: 1000,
		RateBurst: 1000,
	}
}

func TestClient_Suggest_Success(t *testing.T) {
	generator := &fakeGenerator{replies: []string{sampleCompletion}}
	client := NewClient(generator, testClientConfig())

	suggestion := client.Suggest(context.Background(), "Total Fiber outage", "Red LOS light on ONT")

	assert.True(t, suggestion.Available)
	assert.Equal(t, "EAL-04-FIBER-RACK", suggestion.SuggestedCI)
	assert.Equal(t, []string{"LOS", "fiber", "duct damage"}, suggestion.KBKeywords)
	require.Len(t, suggestion.InferredTasks, 1)
	assert.Equal(t, "Field Operations", suggestion.InferredTasks[0].AssignmentGroup)
	assert.Equal(t, "Consumer", suggestion.ServiceType)

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Total Fiber outage")
	assert.Contains(t, generator.prompts[0], "Red LOS light on ONT")
}

func TestClient_Suggest_GeneratorFailure(t *testing.T) {
	generator := &fakeGenerator{errs: []error{errors.New("connection refused")}}
	client := NewClient(generator, testClientConfig())

	suggestion := client.Suggest(context.Background(), "outage", "details")

	assert.False(t, suggestion.Available)
	assert.Empty(t, suggestion.SuggestedCI)
	assert.Empty(t, suggestion.KBKeywords)
}

func TestClient_Suggest_MalformedResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain prose", "I cannot help with that."},
		{"broken json", "```json\n{\"suggestedCI\": \n```"},
		{"wrong types", `{"suggestedCI": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &fakeGenerator{replies: []string{tt.reply}}
			client := NewClient(generator, testClientConfig())

			suggestion := client.Suggest(context.Background(), "outage", "details")
			assert.False(t, suggestion.Available)
		})
	}
}

func TestClient_Suggest_Timeout(t *testing.T) {
	generator := &fakeGenerator{block: make(chan struct{})}
	cfg := testClientConfig()
	cfg.Timeout = 10 * time.Millisecond
	client := NewClient(generator, cfg)

	suggestion := client.Suggest(context.Background(), "outage", "details")
	assert.False(t, suggestion.Available)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go: {\"a\":1}. Anything else?", `{"a":1}`},
		{"no object", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
