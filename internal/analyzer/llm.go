package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Summarizer turns the scraped rows into a short narrative via an
// OpenAI-compatible chat endpoint.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	log       *slog.Logger
}

// NewSummarizer builds the LLM client. baseURL may point at any
// OpenAI-compatible gateway.
func NewSummarizer(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *Summarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	client := openai.NewClient(opts...)
	return &Summarizer{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
		log:       slog.Default().With("component", "analyzer-llm"),
	}
}

const systemPrompt = "You are a market analyst writing a short daily briefing in Hebrew " +
	"for retail investors. Be factual, concise, and avoid hype. Base the " +
	"briefing strictly on the table provided."

// Summarize asks the model for a narrative over the scraped rows. The
// returned text is plain prose; the HTML renderer escapes it.
func (s *Summarizer) Summarize(ctx context.Context, rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("analyzer: no rows to summarize")
	}

	prompt := buildPrompt(rows)
	start := time.Now()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(s.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("analyzer: llm request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("analyzer: llm returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.log.Info("summary generated",
		"model", s.model,
		"chars", len(text),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return text, nil
}

// buildPrompt renders the rows as a fixed-order text table for the model.
func buildPrompt(rows []Row) string {
	var b strings.Builder
	b.WriteString("Today's US index ETF phase table:\n\n")
	b.WriteString("Symbol | Last | Change | %Change | Phase | 5Day | 3Month | 6Month | YTD | TSI | RM50 | RM10\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s\n",
			r.Symbol, r.Last, r.Change, r.PctChange, r.Phase,
			r.FiveDay, r.ThreeMonth, r.SixMonth, r.YTD, r.TSI, r.RM50, r.RM10)
	}
	b.WriteString("\nWrite a briefing of 3-4 short paragraphs: overall market state, ")
	b.WriteString("notable divergences between the indices, and what the phase and ")
	b.WriteString("TSI columns imply for the coming week.")
	return b.String()
}
