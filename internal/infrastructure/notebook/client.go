package notebook

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

const answerSeparator = "============================================================"

// Client drives the external notebook helper binary. Uploads and questions
// are opaque subprocess invocations with per-operation timeouts; every
// failure is returned to the caller, which decides on fallback.
type Client struct {
	cfg    config.NotebookConfig
	logger *slog.Logger
}

var _ ports.NotebookClient = (*Client)(nil)

// NewClient wires the configured helper command.
func NewClient(cfg config.NotebookConfig, log *slog.Logger) *Client {
	return &Client{cfg: cfg, logger: log}
}

// UploadSource registers a local file as a notebook source.
func (c *Client) UploadSource(ctx context.Context, path string) error {
	timeout := c.cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	_, err := c.run(ctx, timeout, "upload", "--file", path, "--notebook-url", c.cfg.NotebookURL)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	c.info("notebook source uploaded", "file", path)
	return nil
}

// AskQuestion queries the notebook and returns the cleaned answer body.
func (c *Client) AskQuestion(ctx context.Context, question string) (string, error) {
	timeout := c.cfg.AskTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}

	out, err := c.run(ctx, timeout, "ask", "--question", question, "--notebook-url", c.cfg.NotebookURL)
	if err != nil {
		return "", fmt.Errorf("ask question: %w", err)
	}

	answer := cleanAnswer(out)
	if answer == "" {
		return "", fmt.Errorf("notebook returned an empty answer")
	}

	return answer, nil
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	if c.cfg.Command == "" {
		return "", fmt.Errorf("notebook command is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w, stderr: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}

	return out.String(), nil
}

// cleanAnswer strips the helper's framing: the answer body sits between the
// second and third separator lines, and anything after the tool's trailing
// "EXTREMELY IMPORTANT:" notice is noise.
func cleanAnswer(raw string) string {
	answer := strings.TrimSpace(raw)

	if parts := strings.Split(answer, answerSeparator); len(parts) >= 3 {
		answer = strings.TrimSpace(parts[2])
	}

	if idx := strings.Index(answer, "EXTREMELY IMPORTANT:"); idx >= 0 {
		answer = strings.TrimSpace(answer[:idx])
	}

	return answer
}

func (c *Client) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}
