package usecase

import (
	"context"
	"log/slog"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// Scheduler wires the daily timer driver with the full briefing run.
type Scheduler struct {
	driver ports.Scheduler
	run    func(context.Context, domain.Slot) error
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, run func(context.Context, domain.Slot) error, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, run: run, logger: log}
}

// Start registers the briefing run with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.run == nil {
		return nil
	}

	job := func(slot domain.Slot) {
		if err := s.run(ctx, slot); err != nil && s.logger != nil {
			s.logger.Error("scheduled run failed", "slot", slot, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
