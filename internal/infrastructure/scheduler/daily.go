package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// DailyScheduler fires the pipeline at the two configured wall-clock times.
// The next fire time is computed explicitly, so a delayed wakeup still
// triggers the overdue slot instead of skipping it.
type DailyScheduler struct {
	cfg    config.SchedulerConfig
	logger *slog.Logger
	stop   chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler from the slot fire times.
func NewDailyScheduler(cfg config.SchedulerConfig, log *slog.Logger) *DailyScheduler {
	return &DailyScheduler{cfg: cfg, logger: log}
}

// Start launches the timer loop. Calling Start twice is a no-op.
func (d *DailyScheduler) Start(ctx context.Context, job func(domain.Slot)) error {
	if job == nil {
		return nil
	}
	if d.stop != nil {
		return nil
	}

	morning, err := parseClock(d.cfg.MorningTime)
	if err != nil {
		return fmt.Errorf("morning time: %w", err)
	}
	evening, err := parseClock(d.cfg.EveningTime)
	if err != nil {
		return fmt.Errorf("evening time: %w", err)
	}

	d.stop = make(chan struct{})
	go d.loop(ctx, job, morning, evening)
	return nil
}

// Stop halts the timer goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

func (d *DailyScheduler) loop(ctx context.Context, job func(domain.Slot), morning, evening clockTime) {
	loc := d.cfg.Location()
	for {
		fireAt, slot := nextFire(time.Now().In(loc), morning, evening)
		d.info("next run scheduled", "slot", slot, "at", fireAt.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(fireAt))
		select {
		case <-timer.C:
			job(slot)
		case <-ctx.Done():
			timer.Stop()
			return
		case <-d.stop:
			timer.Stop()
			return
		}
	}
}

// clockTime is a wall-clock HH:MM within the scheduler's timezone.
type clockTime struct {
	hour   int
	minute int
}

func parseClock(value string) (clockTime, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return clockTime{}, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	return clockTime{hour: parsed.Hour(), minute: parsed.Minute()}, nil
}

func (c clockTime) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, day.Location())
}

// nextFire returns the earliest scheduled time strictly after now and the
// slot it belongs to.
func nextFire(now time.Time, morning, evening clockTime) (time.Time, domain.Slot) {
	candidates := []struct {
		at   time.Time
		slot domain.Slot
	}{
		{morning.on(now), domain.SlotMorning},
		{evening.on(now), domain.SlotEvening},
		{morning.on(now.AddDate(0, 0, 1)), domain.SlotMorning},
		{evening.on(now.AddDate(0, 0, 1)), domain.SlotEvening},
	}

	best := candidates[2]
	for _, candidate := range candidates {
		if candidate.at.After(now) && candidate.at.Before(best.at) {
			best = candidate
		}
	}
	return best.at, best.slot
}

func (d *DailyScheduler) info(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}
