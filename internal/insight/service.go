package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tempowise/internal/config"
	"tempowise/internal/metrics"
	"tempowise/internal/model"
	"tempowise/internal/stats"
)

const (
	FallbackFailed = "Failed to generate insights due to an error."
	FallbackEmpty  = "No insights could be generated at this time."
)

// New builds the generator selected by cfg.Provider.
func New(cfg config.AIConfig) Generator {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model)
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaURL, cfg.Model, cfg.Timeout)
	default:
		return Disabled{}
	}
}

// Service applies the degradation policy around a Generator.
type Service struct {
	gen     Generator
	timeout time.Duration
	log     zerolog.Logger
}

func NewService(gen Generator, timeout time.Duration, log zerolog.Logger) *Service {
	if gen == nil {
		gen = Disabled{}
	}
	return &Service{gen: gen, timeout: timeout, log: log}
}

// Enabled reports whether a real provider is configured.
func (s *Service) Enabled() bool {
	_, disabled := s.gen.(Disabled)
	return !disabled
}

// SuggestTags never fails: errors yield an empty list.
func (s *Service) SuggestTags(ctx context.Context, text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tags, err := s.gen.SuggestTags(ctx, text)
	if err != nil {
		metrics.AIFailures.WithLabelValues("tags").Inc()
		s.log.Warn().Err(err).Msg("suggest tags")
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

// Insights never fails: errors yield FallbackFailed, empty output FallbackEmpty.
func (s *Service) Insights(ctx context.Context, activityLogs, energyLevels string) string {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	text, err := s.gen.GenerateInsights(ctx, activityLogs, energyLevels)
	if err != nil {
		metrics.AIFailures.WithLabelValues("insights").Inc()
		s.log.Warn().Err(err).Msg("generate insights")
		return FallbackFailed
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return text
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

type activityLogEntry struct {
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags,omitempty"`
	DurationMinutes float64  `json:"durationMinutes"`
	StartTime       string   `json:"startTime"`
}

type energyEntry struct {
	Date       string `json:"date"`
	Energy     int    `json:"energy"`
	Motivation int    `json:"motivation"`
}

// BuildActivityLogs serializes activities for the insight prompt.
func BuildActivityLogs(activities []model.Activity, categories []model.Category) (string, error) {
	idx := stats.NewCategoryIndex(categories)
	entries := make([]activityLogEntry, 0, len(activities))
	for _, a := range activities {
		entries = append(entries, activityLogEntry{
			Description:     a.Description,
			Category:        idx.Resolve(a.CategoryID).Name(),
			Tags:            a.Tags,
			DurationMinutes: float64(a.Duration) / 60,
			StartTime:       a.StartTime.UTC().Format(time.RFC3339),
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal activity logs: %w", err)
	}
	return string(data), nil
}

// BuildEnergyLevels serializes energy logs for the insight prompt.
func BuildEnergyLevels(logs []model.EnergyLog) (string, error) {
	entries := make([]energyEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, energyEntry{
			Date:       l.Date.Format("2006-01-02"),
			Energy:     l.Level,
			Motivation: l.Motivation,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal energy levels: %w", err)
	}
	return string(data), nil
}
