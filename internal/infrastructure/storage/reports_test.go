package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
)

var testDay = time.Date(2026, time.February, 27, 9, 0, 0, 0, time.UTC)

func TestSaveAndReadRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewReportStore(t.TempDir())

	path, err := store.Save(testDay, domain.SlotMorning, domain.KindReport, "first body")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if filepath.Base(path) != "20260227_AM_report.md" {
		t.Fatalf("unexpected name: %s", filepath.Base(path))
	}

	body, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if body != "first body" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSaveOverwritesSameIdentity(t *testing.T) {
	t.Parallel()

	store := NewReportStore(t.TempDir())

	if _, err := store.Save(testDay, domain.SlotMorning, domain.KindReport, "old"); err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	path, err := store.Save(testDay, domain.SlotMorning, domain.KindReport, "new")
	if err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	body, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if body != "new" {
		t.Fatalf("expected overwrite, got %q", body)
	}

	paths, err := store.ListDay(testDay)
	if err != nil {
		t.Fatalf("ListDay error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 report, got %d", len(paths))
	}
}

func TestListDayFiltersByDateAndKind(t *testing.T) {
	t.Parallel()

	store := NewReportStore(t.TempDir())
	otherDay := testDay.AddDate(0, 0, -1)

	mustSave := func(day time.Time, slot domain.Slot, kind domain.ArtifactKind) {
		t.Helper()
		if _, err := store.Save(day, slot, kind, "body"); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	mustSave(testDay, domain.SlotMorning, domain.KindReport)
	mustSave(testDay, domain.SlotEvening, domain.KindReport)
	mustSave(testDay, domain.SlotMorning, domain.KindScript)
	mustSave(testDay, domain.SlotMorning, domain.KindScriptFallback)
	mustSave(otherDay, domain.SlotMorning, domain.KindReport)

	paths, err := store.ListDay(testDay)
	if err != nil {
		t.Fatalf("ListDay error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 reports, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "20260227_AM_report.md" || filepath.Base(paths[1]) != "20260227_PM_report.md" {
		t.Fatalf("unexpected listing: %v", paths)
	}
}

func TestListDayMissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	store := NewReportStore(filepath.Join(t.TempDir(), "never-created"))

	paths, err := store.ListDay(testDay)
	if err != nil {
		t.Fatalf("ListDay error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected empty listing, got %v", paths)
	}
}

func TestReportPath(t *testing.T) {
	t.Parallel()

	store := NewReportStore(t.TempDir())

	if _, ok := store.ReportPath(testDay, domain.SlotMorning); ok {
		t.Fatal("expected no report before save")
	}

	saved, err := store.Save(testDay, domain.SlotMorning, domain.KindReport, "body")
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	path, ok := store.ReportPath(testDay, domain.SlotMorning)
	if !ok {
		t.Fatal("expected report after save")
	}
	if path != saved {
		t.Fatalf("expected %s, got %s", saved, path)
	}

	if _, ok := store.ReportPath(testDay, domain.SlotEvening); ok {
		t.Fatal("evening report should not exist")
	}
}
