package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"

	domai "github.com/uptrade-media/audit-engine/internal/domain/ai"
	"github.com/uptrade-media/audit-engine/internal/domain/audits"
	"github.com/uptrade-media/audit-engine/internal/infra/ai/prompt"
)

const (
	defaultModel = "gpt-4o-mini"
	maxTokens    = 1000
	temperature  = 0.7
)

type Client struct {
	*openai.Client
	Model    string
	validate *validator.Validate
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		Client:   openai.NewClient(apiKey),
		Model:    model,
		validate: validator.New(),
	}
}

// GenerateInsights asks the model for the narrative JSON and validates the
// shape before handing it back.
func (c *Client) GenerateInsights(ctx context.Context, in domai.InsightInput) (*audits.Narrative, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(in)},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuotaError(err) {
			return nil, domai.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	content := stripFences(resp.Choices[0].Message.Content)

	var n audits.Narrative
	if err := json.Unmarshal([]byte(content), &n); err != nil {
		return nil, fmt.Errorf("failed to parse narrative JSON: %w", err)
	}
	if err := c.validate.Struct(&n); err != nil {
		return nil, fmt.Errorf("narrative failed validation: %w", err)
	}
	return &n, nil
}

func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "429")
}

// stripFences tolerates models that wrap the JSON in markdown fences despite
// the response-format instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
