package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
)

func seedReport(t *testing.T, store *memStore) {
	t.Helper()
	if _, err := store.Save(testDay, domain.SlotMorning, domain.KindReport, "report body"); err != nil {
		t.Fatalf("seed report: %v", err)
	}
}

func TestProduceStoresNotebookScript(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	seedReport(t, store)
	notebook := &fakeNotebook{answer: "scripted answer"}
	writer := &fakeWriter{script: "fallback script"}

	var delays []time.Duration
	p := NewProducer(ProducerDeps{
		Store: store, Notebook: notebook, Writer: writer,
		MorningOpening: "good morning", EveningOpening: "good evening",
		SettleDelay: 15 * time.Second,
	})
	p.sleep = countingSleep(&delays)

	if err := p.Produce(context.Background(), domain.SlotMorning, testDay); err != nil {
		t.Fatalf("Produce error: %v", err)
	}

	body, ok := store.files["20260227_AM_script.md"]
	if !ok {
		t.Fatalf("expected notebook script artifact, have %v", keys(store.files))
	}
	if !strings.Contains(body, "scripted answer") {
		t.Fatalf("script body missing answer: %q", body)
	}
	if writer.calls != 0 {
		t.Fatal("fallback writer must not run when the notebook answers")
	}
	if len(notebook.asked) != 1 || !strings.Contains(notebook.asked[0], "good morning") {
		t.Fatalf("unexpected question: %v", notebook.asked)
	}
	if len(delays) != 1 || delays[0] != 15*time.Second {
		t.Fatalf("expected settle delay, got %v", delays)
	}
	// instruction file, report, then the finished script.
	if len(notebook.uploads) != 3 {
		t.Fatalf("expected 3 uploads, got %v", notebook.uploads)
	}
}

func TestProduceFallsBackToWriter(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	seedReport(t, store)
	notebook := &fakeNotebook{askErr: errors.New("notebook timeout")}
	writer := &fakeWriter{script: "fallback script"}

	var delays []time.Duration
	p := NewProducer(ProducerDeps{
		Store: store, Notebook: notebook, Writer: writer,
		MorningOpening: "good morning",
	})
	p.sleep = countingSleep(&delays)

	if err := p.Produce(context.Background(), domain.SlotMorning, testDay); err != nil {
		t.Fatalf("Produce error: %v", err)
	}

	body, ok := store.files["20260227_AM_script_fallback.md"]
	if !ok {
		t.Fatalf("expected fallback artifact, have %v", keys(store.files))
	}
	if !strings.Contains(body, "fallback script") {
		t.Fatalf("fallback body missing script: %q", body)
	}
	if writer.calls != 1 {
		t.Fatalf("expected 1 writer call, got %d", writer.calls)
	}
}

func TestProduceWithoutNotebookUsesWriterDirectly(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	seedReport(t, store)
	writer := &fakeWriter{script: "direct script"}

	p := NewProducer(ProducerDeps{Store: store, Writer: writer, MorningOpening: "hi"})

	if err := p.Produce(context.Background(), domain.SlotMorning, testDay); err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if _, ok := store.files["20260227_AM_script_fallback.md"]; !ok {
		t.Fatalf("expected fallback artifact, have %v", keys(store.files))
	}
}

func TestProduceFailsWhenBothPathsFail(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	seedReport(t, store)
	notebook := &fakeNotebook{askErr: errors.New("notebook down")}
	writer := &fakeWriter{err: errors.New("model down")}

	var delays []time.Duration
	p := NewProducer(ProducerDeps{Store: store, Notebook: notebook, Writer: writer})
	p.sleep = countingSleep(&delays)

	if err := p.Produce(context.Background(), domain.SlotMorning, testDay); err == nil {
		t.Fatal("expected error when notebook and fallback both fail")
	}
}

func TestProduceRequiresReport(t *testing.T) {
	t.Parallel()

	p := NewProducer(ProducerDeps{Store: newMemStore(), Writer: &fakeWriter{script: "s"}})

	if err := p.Produce(context.Background(), domain.SlotMorning, testDay); err == nil {
		t.Fatal("expected error without a report artifact")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
