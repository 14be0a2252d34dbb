package assist

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/assureops/incident-desk/internal/domain"
	"github.com/assureops/incident-desk/internal/pkg/ctxlog"
	"golang.org/x/time/rate"
)

// triageInstruction frames the assist request. The task-to-group mapping is
// guidance to the model, not something the client enforces.
const triageInstruction = `You are an ITSM "Agent Assist" AI for a BT/Openreach environment.
Your task is to analyze incident descriptions and provide:
1. Recommended Configuration Item (CI) from the CMDB context.
2. Search keywords for the Knowledge Base.
3. A summary of the likely technical fault based on Openreach terminology.
4. Suggested Next Action for the resolver.
5. Inferred follow-up tasks, each with a default assignment group:
   field engineer visits go to Field Operations, civils or estimate work
   goes to Civils, third-party dependencies go to Third Party Liaison.
6. The affected service type: one of Business, Consumer, International, Corporate.

Respond with a single JSON object using exactly these keys:
suggestedCI (string), kbKeywords (array of strings), faultAnalysis (string),
suggestedNextAction (string), inferredTasks (array of {taskType, assignmentGroup}),
serviceType (string). No prose outside the JSON.`

// ClientConfig holds triage-assist client configuration.
type ClientConfig struct {
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   15 * time.Second,
		RateLimit: 1,
		RateBurst: 3,
	}
}

// Client obtains triage suggestions from a Generator. It is strictly
// advisory: every failure mode (transport, timeout, malformed response)
// collapses into an unavailable suggestion, never an error.
type Client struct {
	generator Generator
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewClient creates a new triage-assist client.
func NewClient(generator Generator, cfg ClientConfig) *Client {
	return &Client{
		generator: generator,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		timeout:   cfg.Timeout,
	}
}

// triagePayload is the JSON shape the assist source is asked to return.
type triagePayload struct {
	SuggestedCI         string                `json:"suggestedCI"`
	KBKeywords          []string              `json:"kbKeywords"`
	FaultAnalysis       string                `json:"faultAnalysis"`
	SuggestedNextAction string                `json:"suggestedNextAction"`
	InferredTasks       []domain.InferredTask `json:"inferredTasks"`
	ServiceType         string                `json:"serviceType"`
}

// Suggest analyzes the edit buffer's descriptions and returns a suggestion
// bundle. On any failure the result has Available=false and the cause is
// logged, not propagated.
func (c *Client) Suggest(ctx context.Context, shortDescription, description string) domain.AssistSuggestion {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return c.unavailable(ctx, start, "rate limit wait", err)
	}

	prompt := "Analyze this incident:\nSummary: " + shortDescription + "\nDescription: " + description
	raw, err := c.generator.Generate(ctx, triageInstruction, prompt)
	if err != nil {
		return c.unavailable(ctx, start, "generate", err)
	}

	var payload triagePayload
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return c.unavailable(ctx, start, "decode response", err)
	}

	recordSuggestion("success", time.Since(start))
	return domain.AssistSuggestion{
		Available:           true,
		SuggestedCI:         payload.SuggestedCI,
		KBKeywords:          payload.KBKeywords,
		FaultAnalysis:       payload.FaultAnalysis,
		SuggestedNextAction: payload.SuggestedNextAction,
		InferredTasks:       payload.InferredTasks,
		ServiceType:         payload.ServiceType,
	}
}

func (c *Client) unavailable(ctx context.Context, start time.Time, stage string, err error) domain.AssistSuggestion {
	ctxlog.FromContext(ctx).Warn("triage assist unavailable", "stage", stage, "error", err)
	recordSuggestion("failure", time.Since(start))
	return domain.AssistSuggestion{}
}

// extractJSON cuts the first JSON object out of a completion that may be
// wrapped in markdown fences or prose.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
