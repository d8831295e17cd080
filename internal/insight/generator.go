// Package insight asks a language model for tag suggestions and
// productivity insights. Calls are single-shot; failures degrade to an
// empty tag list or a fixed message in Service.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Generator is a remote text model.
type Generator interface {
	SuggestTags(ctx context.Context, text string) ([]string, error)
	GenerateInsights(ctx context.Context, activityLogs, energyLevels string) (string, error)
}

// ErrDisabled is returned by Disabled.
var ErrDisabled = errors.New("insight generator is disabled")

// Disabled is used when no provider is configured.
type Disabled struct{}

func (Disabled) SuggestTags(context.Context, string) ([]string, error) { return nil, ErrDisabled }

func (Disabled) GenerateInsights(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

const maxTags = 8

func tagsPrompt(text string) string {
	return fmt.Sprintf(`Suggest tags for the activity described below. Tags must be short (one or two words), lowercase and descriptive of the content.
Reply with a JSON array of strings only, for example ["coding", "project-x"].

Activity: %s`, text)
}

func insightsPrompt(activityLogs, energyLevels string) string {
	return fmt.Sprintf(`You are a productivity assistant. Study the user's logged activities and self-reported energy levels and give personalised, practical recommendations for managing their time.

Activity logs (JSON): %s
Energy levels (JSON, 1 = low, 5 = high): %s

Point out peak productivity times, suggest schedule adjustments and match kinds of work to energy levels. Keep it under 200 words and use plain text.`, activityLogs, energyLevels)
}

// parseTags extracts the first JSON array of strings from a model reply and
// normalizes it: trimmed, lowercase, without a leading '#', deduplicated.
func parseTags(reply string) ([]string, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var raw []string
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#")))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags, nil
}
