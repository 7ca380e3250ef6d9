package ports

import (
	"context"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
)

// SourceLocator finds today's video in the playlist bound to a slot.
// A nil item with a nil error means nothing was found yet; the caller
// decides whether to retry.
type SourceLocator interface {
	Locate(ctx context.Context, slot domain.Slot, day time.Time) (*domain.SourceItem, error)
}

// ContentExtractor fetches the caption transcript for a located video.
// A nil transcript is the expected outcome when no caption track exists.
type ContentExtractor interface {
	Extract(ctx context.Context, videoID string) (*domain.Transcript, error)
}

// Summarizer turns a transcript into the slot's briefing report text.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, slot domain.Slot, day time.Time) (string, error)
}

// ScriptWriter generates a video production script directly from a report,
// used when the notebook tool is unavailable.
type ScriptWriter interface {
	WriteScript(ctx context.Context, report string, slot domain.Slot, day time.Time) (string, error)
}

// ArtifactStore owns report and script persistence. Identity is
// (day, slot, kind); Save overwrites an existing artifact with the same
// identity.
type ArtifactStore interface {
	Save(day time.Time, slot domain.Slot, kind domain.ArtifactKind, body string) (string, error)
	ListDay(day time.Time) ([]string, error)
	Read(path string) (string, error)
	ReportPath(day time.Time, slot domain.Slot) (string, bool)
}

// DeliveryLedger records which report files were already sent downstream.
// Entries are append-only; there is no removal.
type DeliveryLedger interface {
	IsDelivered(name string) bool
	MarkDelivered(name string) error
}

// MessageSender pushes a rendered HTML payload to the chat channel.
type MessageSender interface {
	Send(ctx context.Context, text string) error
}

// NotebookClient drives the external notebook tool. Both operations are
// opaque remote calls with their own timeouts.
type NotebookClient interface {
	UploadSource(ctx context.Context, path string) error
	AskQuestion(ctx context.Context, question string) (string, error)
}

// Scheduler fires the registered job at the configured daily times.
type Scheduler interface {
	Start(ctx context.Context, job func(domain.Slot)) error
	Stop(ctx context.Context) error
}
