package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// ErrNoUpdate reports that every acquisition attempt came up empty; the
// day simply has no new briefing yet.
var ErrNoUpdate = errors.New("no new briefing available today")

// PipelineDeps wires all driven adapters into the acquisition pipeline.
type PipelineDeps struct {
	Locator     ports.SourceLocator
	Extractor   ports.ContentExtractor
	Summarizer  ports.Summarizer
	Store       ports.ArtifactStore
	MaxAttempts int
	RetryDelay  time.Duration
	Logger      *slog.Logger
}

// Pipeline runs the locate -> extract -> summarize -> store chain for one
// slot, retrying the whole chain on any stage absence.
type Pipeline struct {
	locator     ports.SourceLocator
	extractor   ports.ContentExtractor
	summarizer  ports.Summarizer
	store       ports.ArtifactStore
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
	sleep       func(context.Context, time.Duration) error
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	attempts := deps.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &Pipeline{
		locator:     deps.Locator,
		extractor:   deps.Extractor,
		summarizer:  deps.Summarizer,
		store:       deps.Store,
		maxAttempts: attempts,
		retryDelay:  deps.RetryDelay,
		logger:      deps.Logger,
		sleep:       sleepCtx,
	}
}

// Run drives up to maxAttempts full passes for the slot. Any stage yielding
// absence abandons the attempt; no partial artifact is written. The run ends
// successfully on the first stored report, with ErrNoUpdate after
// exhaustion, or with a fatal error on persistence failure.
//
// If the day's report already exists the run short-circuits as a success
// unless force is set. This also guards the locator's dateless-title
// fallback from reprocessing a stale item on re-invocation.
func (p *Pipeline) Run(ctx context.Context, slot domain.Slot, day time.Time, force bool) error {
	if !force {
		if path, ok := p.store.ReportPath(day, slot); ok {
			p.info("report already exists, skipping acquisition", "slot", slot, "path", path)
			return nil
		}
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		stored, err := p.attempt(ctx, slot, day, attempt)
		if err != nil {
			return err
		}
		if stored {
			return nil
		}

		if attempt < p.maxAttempts {
			p.info("waiting before retry", "slot", slot, "attempt", attempt, "delay", p.retryDelay)
			if err := p.sleep(ctx, p.retryDelay); err != nil {
				return err
			}
		}
	}

	p.info("no update for slot today", "slot", slot)
	return ErrNoUpdate
}

// attempt runs one full pass. It returns (false, nil) for the expected
// transient-absence outcomes and a non-nil error only for fatal conditions.
func (p *Pipeline) attempt(ctx context.Context, slot domain.Slot, day time.Time, attempt int) (bool, error) {
	item, err := p.locator.Locate(ctx, slot, day)
	if err != nil {
		return false, fmt.Errorf("locate: %w", err)
	}
	if item == nil {
		p.info("no video found in playlist", "slot", slot, "attempt", attempt)
		return false, nil
	}
	p.info("found video", "slot", slot, "video", item.ID, "title", item.Title, "attempt", attempt)

	transcript, err := p.extractor.Extract(ctx, item.ID)
	if err != nil {
		return false, fmt.Errorf("extract: %w", err)
	}
	if transcript == nil || transcript.Text == "" {
		p.info("no transcript available yet", "video", item.ID, "attempt", attempt)
		return false, nil
	}

	report, err := p.summarizer.Summarize(ctx, transcript.Text, slot, day)
	if err != nil {
		// External-capability failure: a fresh attempt restarts from
		// acquisition rather than retrying the same call.
		p.warn("summarization failed", "video", item.ID, "attempt", attempt, "error", err)
		return false, nil
	}

	path, err := p.store.Save(day, slot, domain.KindReport, report)
	if err != nil {
		return false, fmt.Errorf("persist report: %w", err)
	}

	p.info("report saved", "slot", slot, "path", path)
	return true, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
