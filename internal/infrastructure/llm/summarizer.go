package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// NoTranscriptSentinel is returned instead of calling the model when there
// is nothing to analyze.
const NoTranscriptSentinel = "No transcript available for analysis."

type completeFunc func(ctx context.Context, prompt string) (string, error)

// Client generates briefing reports and video scripts through an
// OpenAI-compatible chat-completion API.
type Client struct {
	cfg      config.LLMConfig
	complete completeFunc
}

var _ ports.Summarizer = (*Client)(nil)
var _ ports.ScriptWriter = (*Client)(nil)

// NewClient builds a client from configuration. The base URL may point at
// any OpenAI-compatible endpoint (Gemini's compatibility layer by default).
func NewClient(cfg config.LLMConfig) *Client {
	c := &Client{cfg: cfg}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := openai.NewClient(opts...)

	c.complete = func(ctx context.Context, prompt string) (string, error) {
		resp, err := api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(cfg.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	}

	return c
}

// newClientWithCompleter swaps the transport for tests.
func newClientWithCompleter(cfg config.LLMConfig, complete completeFunc) *Client {
	return &Client{cfg: cfg, complete: complete}
}

// Summarize renders the report prompt and makes exactly one model call.
// Empty transcripts short-circuit with the sentinel without touching the
// network.
func (c *Client) Summarize(ctx context.Context, transcript string, slot domain.Slot, day time.Time) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return NoTranscriptSentinel, nil
	}

	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	prompt := renderTemplate(c.cfg.ReportPrompt, map[string]string{
		"transcript": transcript,
		"slot":       slot.DisplayName(),
		"date":       day.Format("2006-01-02"),
	})

	return c.call(ctx, prompt)
}

// WriteScript renders the production-script prompt from a finished report.
func (c *Client) WriteScript(ctx context.Context, report string, slot domain.Slot, day time.Time) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	prompt := renderTemplate(c.cfg.ScriptPrompt, map[string]string{
		"report":  report,
		"opening": c.opening(slot),
		"slot":    slot.DisplayName(),
		"date":    day.Format("2006-01-02"),
	})

	return c.call(ctx, prompt)
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	return c.complete(ctx, prompt)
}

func (c *Client) checkCredentials() error {
	if c.cfg.APIKey == "" {
		return fmt.Errorf("llm api key is not configured")
	}
	return nil
}

func (c *Client) opening(slot domain.Slot) string {
	if slot == domain.SlotEvening {
		return c.cfg.EveningOpening
	}
	return c.cfg.MorningOpening
}

// renderTemplate substitutes {{name}} placeholders; the template text itself
// is configuration, not behavior.
func renderTemplate(template string, values map[string]string) string {
	out := template
	for name, value := range values {
		out = strings.ReplaceAll(out, "{{"+name+"}}", value)
	}
	return out
}
