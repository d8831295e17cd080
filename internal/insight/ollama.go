package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultOllamaModel = "llama3.2"

// OllamaGenerator calls a local Ollama server's /api/generate endpoint.
type OllamaGenerator struct {
	client *resty.Client
	model  string
}

func NewOllama(baseURL, model string, timeout time.Duration) *OllamaGenerator {
	if model == "" {
		model = DefaultOllamaModel
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OllamaGenerator{client: c, model: model}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (g *OllamaGenerator) SuggestTags(ctx context.Context, text string) ([]string, error) {
	reply, err := g.generate(ctx, tagsPrompt(text))
	if err != nil {
		return nil, err
	}
	return parseTags(reply)
}

func (g *OllamaGenerator) GenerateInsights(ctx context.Context, activityLogs, energyLevels string) (string, error) {
	return g.generate(ctx, insightsPrompt(activityLogs, energyLevels))
}

func (g *OllamaGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&generateRequest{Model: g.model, Prompt: prompt}).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	return strings.TrimSpace(out.Response), nil
}
