package insight

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicGenerator calls the Anthropic Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates a generator. Retries are disabled: a failed call is reported once.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *AnthropicGenerator {
	if model == "" {
		model = DefaultAnthropicModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &AnthropicGenerator{client: anthropic.NewClient(opts...), model: model}
}

func (g *AnthropicGenerator) SuggestTags(ctx context.Context, text string) ([]string, error) {
	reply, err := g.complete(ctx, tagsPrompt(text), 256)
	if err != nil {
		return nil, err
	}
	return parseTags(reply)
}

func (g *AnthropicGenerator) GenerateInsights(ctx context.Context, activityLogs, energyLevels string) (string, error) {
	return g.complete(ctx, insightsPrompt(activityLogs, energyLevels), 1024)
}

func (g *AnthropicGenerator) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		sb.WriteString(block.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
