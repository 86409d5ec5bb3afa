package generator

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/github-resume/internal/errors"
)

// ProjectMetadata is the structured prompt input for one project description.
type ProjectMetadata struct {
	Name         string
	Technologies []string
	Structure    string
}

const (
	defaultModel     = "codestral-latest"
	defaultMaxTokens = 200

	promptTemplate = `Generate a professional project description using this information:
Name: %s
Technologies: %s
Project Structure: %s

The description should be 2-3 sentences highlighting:
- The main purpose of the project
- Key technologies and how they are applied
- Notable architecture or implementation details`
)

// Client generates natural-language project descriptions through an
// OpenAI-compatible text-completion API (Codestral by default).
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *logrus.Logger
}

// NewClient creates a generator client. It fails with a configuration error
// when no API key is set so that callers can skip the feature instead of
// carrying a client that can never succeed.
func NewClient(apiKey, baseURL, model string, logger *logrus.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.NewConfigurationError("description generator API key not configured", nil)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if model == "" {
		model = defaultModel
	}

	return &Client{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: defaultMaxTokens,
		logger:    logger,
	}, nil
}

// Generate returns a natural-language paragraph for the given project. Any
// provider failure is reported as a generation error; callers are expected to
// substitute a fallback description rather than surface it.
func (c *Client) Generate(ctx context.Context, project ProjectMetadata) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, project.Name, strings.Join(project.Technologies, ", "), project.Structure)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", apperrors.NewGenerationError("description generation failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewGenerationError("description generation returned no choices", nil)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperrors.NewGenerationError("description generation returned empty text", nil)
	}

	return text, nil
}
