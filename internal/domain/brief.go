package domain

import (
	"fmt"
	"strings"
	"time"
)

// Slot identifies one of the two daily briefing windows. It selects which
// playlist is scanned and which message template applies.
type Slot string

const (
	SlotMorning Slot = "AM"
	SlotEvening Slot = "PM"
)

// ParseSlot normalizes a CLI argument into a Slot.
func ParseSlot(value string) (Slot, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", string(SlotMorning):
		return SlotMorning, nil
	case string(SlotEvening):
		return SlotEvening, nil
	}
	return "", fmt.Errorf("unknown slot %q (expected AM or PM)", value)
}

// DisplayName is the human label used in prompts and message titles.
func (s Slot) DisplayName() string {
	if s == SlotEvening {
		return "PM Brief"
	}
	return "AM Brief"
}

// SourceItem is a video discovered in a playlist. Transient: re-derived on
// every locate call, never persisted.
type SourceItem struct {
	ID           string
	Title        string
	DiscoveredAt time.Time
}

// Transcript is the extracted caption text for a source item. An empty Text
// is a valid outcome (no caption track published yet), not an error.
type Transcript struct {
	VideoID  string
	Text     string
	Language string
}

// ArtifactKind distinguishes the durable work products of a run.
type ArtifactKind string

const (
	KindReport         ArtifactKind = "report"
	KindScript         ArtifactKind = "script"
	KindScriptFallback ArtifactKind = "script_fallback"
)

// DateToken renders a day as the YYYYMMDD token used in video titles and
// artifact file names.
func DateToken(day time.Time) string {
	return day.Format("20060102")
}
