package scheduler

import (
	"testing"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	got, err := parseClock("08:40")
	if err != nil {
		t.Fatalf("parseClock error: %v", err)
	}
	if got.hour != 8 || got.minute != 40 {
		t.Fatalf("unexpected clock: %+v", got)
	}

	for _, bad := range []string{"", "8:40pm", "25:00", "08-40"} {
		if _, err := parseClock(bad); err == nil {
			t.Errorf("parseClock(%q) expected error", bad)
		}
	}
}

func TestNextFire(t *testing.T) {
	t.Parallel()

	morning := clockTime{hour: 8, minute: 40}
	evening := clockTime{hour: 17, minute: 40}
	day := func(hour, minute int) time.Time {
		return time.Date(2026, time.February, 27, hour, minute, 0, 0, time.UTC)
	}

	cases := []struct {
		name     string
		now      time.Time
		wantAt   time.Time
		wantSlot domain.Slot
	}{
		{"before morning", day(6, 0), day(8, 40), domain.SlotMorning},
		{"between slots", day(12, 0), day(17, 40), domain.SlotEvening},
		{"after evening rolls over", day(23, 0), day(8, 40).AddDate(0, 0, 1), domain.SlotMorning},
		{"exactly at morning picks evening", day(8, 40), day(17, 40), domain.SlotEvening},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			at, slot := nextFire(tc.now, morning, evening)
			if !at.Equal(tc.wantAt) || slot != tc.wantSlot {
				t.Fatalf("nextFire(%v) = (%v, %s), want (%v, %s)",
					tc.now, at, slot, tc.wantAt, tc.wantSlot)
			}
		})
	}
}

func TestNextFireAlwaysAdvances(t *testing.T) {
	t.Parallel()

	morning := clockTime{hour: 8, minute: 40}
	evening := clockTime{hour: 17, minute: 40}

	now := time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		at, _ := nextFire(now, morning, evening)
		if !at.After(now) {
			t.Fatalf("fire time %v not after %v", at, now)
		}
		now = at
	}
}
