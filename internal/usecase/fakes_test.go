package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
)

type fakeLocator struct {
	calls int
	fn    func(attempt int) (*domain.SourceItem, error)
}

func (f *fakeLocator) Locate(ctx context.Context, slot domain.Slot, day time.Time) (*domain.SourceItem, error) {
	f.calls++
	return f.fn(f.calls)
}

type fakeExtractor struct {
	calls int
	fn    func(videoID string) (*domain.Transcript, error)
}

func (f *fakeExtractor) Extract(ctx context.Context, videoID string) (*domain.Transcript, error) {
	f.calls++
	return f.fn(videoID)
}

type fakeSummarizer struct {
	calls int
	fn    func(transcript string) (string, error)
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string, slot domain.Slot, day time.Time) (string, error) {
	f.calls++
	return f.fn(transcript)
}

type fakeWriter struct {
	calls  int
	script string
	err    error
}

func (f *fakeWriter) WriteScript(ctx context.Context, report string, slot domain.Slot, day time.Time) (string, error) {
	f.calls++
	return f.script, f.err
}

// memStore is an in-memory ArtifactStore keyed by artifact name, with
// injectable failures.
type memStore struct {
	files   map[string]string
	saveErr error
	readErr error
}

func newMemStore() *memStore {
	return &memStore{files: map[string]string{}}
}

func artifactKey(day time.Time, slot domain.Slot, kind domain.ArtifactKind) string {
	return fmt.Sprintf("%s_%s_%s.md", domain.DateToken(day), slot, kind)
}

func (m *memStore) Save(day time.Time, slot domain.Slot, kind domain.ArtifactKind, body string) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	name := artifactKey(day, slot, kind)
	m.files[name] = body
	return name, nil
}

func (m *memStore) ListDay(day time.Time) ([]string, error) {
	prefix := domain.DateToken(day)
	var paths []string
	for name := range m.files {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, "_report.md") {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *memStore) Read(path string) (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	body, ok := m.files[path]
	if !ok {
		return "", errors.New("artifact not found: " + path)
	}
	return body, nil
}

func (m *memStore) ReportPath(day time.Time, slot domain.Slot) (string, bool) {
	name := artifactKey(day, slot, domain.KindReport)
	_, ok := m.files[name]
	return name, ok
}

// memLedger tracks delivered names in memory, with an injectable mark
// failure.
type memLedger struct {
	delivered map[string]struct{}
	markErr   error
}

func newMemLedger() *memLedger {
	return &memLedger{delivered: map[string]struct{}{}}
}

func (m *memLedger) IsDelivered(name string) bool {
	_, ok := m.delivered[name]
	return ok
}

func (m *memLedger) MarkDelivered(name string) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.delivered[name] = struct{}{}
	return nil
}

type fakeSender struct {
	sent []string
	errs []error
}

func (f *fakeSender) Send(ctx context.Context, text string) error {
	f.sent = append(f.sent, text)
	if len(f.errs) >= len(f.sent) {
		return f.errs[len(f.sent)-1]
	}
	return nil
}

type fakeNotebook struct {
	uploads   []string
	uploadErr error
	answer    string
	askErr    error
	asked     []string
}

func (f *fakeNotebook) UploadSource(ctx context.Context, path string) error {
	f.uploads = append(f.uploads, path)
	return f.uploadErr
}

func (f *fakeNotebook) AskQuestion(ctx context.Context, question string) (string, error) {
	f.asked = append(f.asked, question)
	return f.answer, f.askErr
}

// countingSleep records requested delays without waiting.
func countingSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}
