package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempowise/internal/model"
)

type stubGenerator struct {
	tags     []string
	tagsErr  error
	insight  string
	insErr   error
	lastLogs string
}

func (s *stubGenerator) SuggestTags(context.Context, string) ([]string, error) {
	return s.tags, s.tagsErr
}

func (s *stubGenerator) GenerateInsights(_ context.Context, logs, _ string) (string, error) {
	s.lastLogs = logs
	return s.insight, s.insErr
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    []string
		wantErr bool
	}{
		{"plain array", `["coding","Go"]`, []string{"coding", "go"}, false},
		{"wrapped in prose", "Sure! Here you go:\n[\"#Focus\", \" deep work \", \"focus\"]\nEnjoy", []string{"focus", "deep work"}, false},
		{"empty entries dropped", `["", "  ", "x"]`, []string{"x"}, false},
		{"no array", "coding, go", nil, true},
		{"not strings", `[1, 2]`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTags(tt.reply)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTags_Limit(t *testing.T) {
	got, err := parseTags(`["a","b","c","d","e","f","g","h","i","j"]`)
	require.NoError(t, err)
	assert.Len(t, got, maxTags)
}

func TestService_Degradation(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	failing := NewService(&stubGenerator{tagsErr: errors.New("boom"), insErr: errors.New("boom")}, time.Second, log)
	assert.Equal(t, []string{}, failing.SuggestTags(ctx, "writing report"))
	assert.Equal(t, FallbackFailed, failing.Insights(ctx, "[]", "[]"))

	empty := NewService(&stubGenerator{insight: "   "}, time.Second, log)
	assert.Equal(t, FallbackEmpty, empty.Insights(ctx, "[]", "[]"))
	assert.Equal(t, []string{}, empty.SuggestTags(ctx, "writing report"))

	ok := NewService(&stubGenerator{tags: []string{"writing"}, insight: "Work mornings."}, 0, log)
	assert.Equal(t, []string{"writing"}, ok.SuggestTags(ctx, "writing report"))
	assert.Equal(t, "Work mornings.", ok.Insights(ctx, "[]", "[]"))
	assert.True(t, ok.Enabled())
}

func TestService_Disabled(t *testing.T) {
	svc := NewService(nil, time.Second, zerolog.Nop())
	assert.False(t, svc.Enabled())
	assert.Equal(t, []string{}, svc.SuggestTags(context.Background(), "anything"))
	assert.Equal(t, FallbackFailed, svc.Insights(context.Background(), "[]", "[]"))
}

func TestService_BlankTextSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{tags: []string{"x"}}
	svc := NewService(gen, time.Second, zerolog.Nop())
	assert.Equal(t, []string{}, svc.SuggestTags(context.Background(), "   "))
}

func TestBuildActivityLogs(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	activities := []model.Activity{
		{Description: "Write", CategoryID: "c1", StartTime: start, Duration: 5400},
		{Description: "Lost", CategoryID: "gone", StartTime: start, Duration: 60},
	}
	categories := []model.Category{{ID: "c1", Name: "Work"}}

	out, err := BuildActivityLogs(activities, categories)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Work", entries[0]["category"])
	assert.Equal(t, 90.0, entries[0]["durationMinutes"])
	assert.Equal(t, "2024-03-04T09:00:00Z", entries[0]["startTime"])
	assert.Equal(t, "Uncategorized", entries[1]["category"])
}

func TestBuildEnergyLevels(t *testing.T) {
	logs := []model.EnergyLog{{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Level: 4, Motivation: 2}}
	out, err := BuildEnergyLevels(logs)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2024-03-04","energy":4,"motivation":2}]`, out)

	empty, err := BuildEnergyLevels(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestOllamaGenerator(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(generateResponse{Response: `["reading", "books"]`})
	}))
	defer srv.Close()

	gen := NewOllama(srv.URL, "", 5*time.Second)
	tags, err := gen.SuggestTags(context.Background(), "reading a novel")
	require.NoError(t, err)
	assert.Equal(t, []string{"reading", "books"}, tags)
	assert.Equal(t, DefaultOllamaModel, got.Model)
	assert.False(t, got.Stream)
	assert.Contains(t, got.Prompt, "reading a novel")
}

func TestOllamaGenerator_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	gen := NewOllama(srv.URL, "missing", 5*time.Second)
	_, err := gen.GenerateInsights(context.Background(), "[]", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestAnthropicGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "test-model",
			"content": [{"type": "text", "text": "Focus on deep work before noon."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 8}
		}`))
	}))
	defer srv.Close()

	gen := NewAnthropic("test-key", "test-model", option.WithBaseURL(srv.URL))
	text, err := gen.GenerateInsights(context.Background(), "[]", "[]")
	require.NoError(t, err)
	assert.Equal(t, "Focus on deep work before noon.", text)
}

func TestNew_SelectsProvider(t *testing.T) {
	assert.IsType(t, Disabled{}, New(configFor("none")))
	assert.IsType(t, &OllamaGenerator{}, New(configFor("ollama")))
	assert.IsType(t, &AnthropicGenerator{}, New(configFor("anthropic")))
}
