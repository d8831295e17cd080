package insight

import (
	"time"

	"tempowise/internal/config"
)

func configFor(provider string) config.AIConfig {
	return config.AIConfig{
		Provider:        provider,
		AnthropicAPIKey: "k",
		OllamaURL:       "http://localhost:11434",
		Timeout:         time.Second,
	}
}
