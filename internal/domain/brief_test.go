package domain

import (
	"testing"
	"time"
)

func TestParseSlot(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Slot
	}{
		{"AM", SlotMorning},
		{"am", SlotMorning},
		{" pm ", SlotEvening},
		{"PM", SlotEvening},
		{"", SlotMorning},
	}
	for _, tc := range cases {
		got, err := ParseSlot(tc.in)
		if err != nil {
			t.Errorf("ParseSlot(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSlot(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseSlot("noon"); err == nil {
		t.Error("ParseSlot(noon) expected error")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if SlotMorning.DisplayName() != "AM Brief" || SlotEvening.DisplayName() != "PM Brief" {
		t.Fatalf("unexpected display names: %q, %q", SlotMorning.DisplayName(), SlotEvening.DisplayName())
	}
}

func TestDateToken(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.February, 27, 23, 59, 0, 0, time.UTC)
	if got := DateToken(day); got != "20260227" {
		t.Fatalf("DateToken = %s", got)
	}
}
