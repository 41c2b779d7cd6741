// Package suggest produces advisory next-version proposals from free-text
// change descriptions. The whole package is best-effort: a missing API key,
// a transport failure or an unparseable completion all degrade to "no
// suggestion" and must never block an append or a read.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ImpactLevel classifies the blast radius of a change.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "Low"
	ImpactMedium ImpactLevel = "Medium"
	ImpactHigh   ImpactLevel = "High"
)

// Suggestion is the advisory triple returned to the entry form.
type Suggestion struct {
	SuggestedVersion  string      `json:"suggestedVersion"`
	FormalDescription string      `json:"formalDescription"`
	ImpactLevel       ImpactLevel `json:"impactLevel"`
}

const systemPrompt = "You are a release documentation assistant for SAP RICEFW functional specifications. " +
	"Respond with a single JSON object containing exactly the keys " +
	`"suggestedVersion", "formalDescription" and "impactLevel" (Low, Medium or High).`

// Service holds an optional LLM client. A zero client means suggestions are
// disabled and every call yields nil.
type Service struct {
	client *openai.Client
	model  string
}

// NewService builds the suggestion service. An empty API key disables it
// rather than failing startup.
func NewService(apiKey, model string) *Service {
	if strings.TrimSpace(apiKey) == "" {
		log.Println("[SUGGEST] no API key configured, suggestions disabled")
		return &Service{}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Service{client: openai.NewClient(apiKey), model: model}
}

// newServiceWithConfig lets tests point the client at a fake endpoint.
func newServiceWithConfig(cfg openai.ClientConfig, model string) *Service {
	return &Service{client: openai.NewClientWithConfig(cfg), model: model}
}

// Enabled reports whether a client is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Suggest returns a best-effort suggestion or nil. It never returns an
// error: failures are logged and swallowed by contract.
func (s *Service) Suggest(ctx context.Context, currentVersion, changeDescription string) *Suggestion {
	if s.client == nil {
		return nil
	}

	prompt := fmt.Sprintf(
		"Current Version: %s. Change Description: %s. "+
			"Suggest the next semantic version number and a professional summarized release note for functional documentation.",
		currentVersion, changeDescription,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.Printf("[SUGGEST] completion failed: %v", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		log.Println("[SUGGEST] completion returned no choices")
		return nil
	}

	suggestion, err := parseSuggestion(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("[SUGGEST] unusable completion: %v", err)
		return nil
	}
	return suggestion
}

// parseSuggestion decodes a completion payload, tolerating markdown code
// fences some models wrap around JSON.
func parseSuggestion(raw string) (*Suggestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion: %w", err)
	}
	if strings.TrimSpace(suggestion.SuggestedVersion) == "" {
		return nil, fmt.Errorf("suggestion missing suggestedVersion")
	}
	suggestion.ImpactLevel = normalizeImpact(string(suggestion.ImpactLevel))
	return &suggestion, nil
}

func normalizeImpact(raw string) ImpactLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return ImpactLow
	case "high":
		return ImpactHigh
	default:
		return ImpactMedium
	}
}
