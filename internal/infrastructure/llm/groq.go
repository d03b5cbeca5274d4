// Package llm summarizes article batches through the Groq
// chat-completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Aravinnthram/AINow/internal/config"
	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/ports"
)

const (
	emptyBatchSummary = "No recent AI-related articles were found from the configured sources."

	systemPrompt = "You are an AI news assistant. Your job is to read the list of recent technology news " +
		"and select only the most important AI-related updates. Focus on LLMs, AI models, tools, " +
		"regulation, big product launches, and breakthroughs.\n\n" +
		"Write a concise email-style summary with:\n" +
		"- A short intro (1–2 lines)\n" +
		"- 3 to 7 bullet points of key AI updates\n" +
		"- Each bullet should have: what happened, why it matters, and (if useful) the company/model name.\n" +
		"- At the end, add a section 'Links' listing the selected articles' titles with their URLs.\n"
)

// Groq implements ports.Summarizer backed by OpenAI-compatible APIs.
type Groq struct {
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

var _ ports.Summarizer = (*Groq)(nil)

// NewGroq builds a client from configuration.
func NewGroq(cfg config.GroqConfig) *Groq {
	return &Groq{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Summarize sends the batch to the model and returns its digest text.
// An empty batch short-circuits to a fixed notice without any network
// call. A missing API key is an error, never a silent fallback.
func (g *Groq) Summarize(ctx context.Context, batch []domain.Article) (string, error) {
	if g == nil {
		return "", fmt.Errorf("groq client is nil")
	}
	if g.apiKey == "" {
		return "", fmt.Errorf("groq api key is not set")
	}
	if g.endpoint == "" || g.model == "" {
		return "", fmt.Errorf("groq client misconfigured")
	}
	if len(batch) == 0 {
		return emptyBatchSummary, nil
	}

	body, err := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt(batch)},
		},
		"temperature": g.temperature,
		"max_tokens":  g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal groq payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("groq error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// userPrompt lists the batch the way the model expects it: numbered
// entries with title, source, summary and link.
func userPrompt(batch []domain.Article) string {
	var listing strings.Builder
	for i, art := range batch {
		fmt.Fprintf(&listing, "%d. Title: %s\n   Source: %s\n   Summary: %s\n   Link: %s\n\n",
			i+1, art.Title, art.Source, art.Summary, art.Link)
	}
	return "Here are some recent articles. Pick the most important AI updates and create an email digest:\n\n" + listing.String()
}
