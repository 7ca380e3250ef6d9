package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// Artifact identity is fully recoverable from the file name:
// {YYYYMMDD}_{AM|PM}_{kind}.md. No separate index exists.
var reportNameExpr = regexp.MustCompile(`^\d{8}_(AM|PM)_report\.md$`)

// ReportStore persists briefing artifacts as files under a fixed directory.
type ReportStore struct {
	dir string
}

var _ ports.ArtifactStore = (*ReportStore)(nil)

// NewReportStore wires the reports directory; it is created on first save.
func NewReportStore(dir string) *ReportStore {
	return &ReportStore{dir: dir}
}

// Save writes the artifact body, overwriting any artifact with the same
// (day, slot, kind) identity. Write failures are fatal to the caller's run.
func (s *ReportStore) Save(day time.Time, slot domain.Slot, kind domain.ArtifactKind, body string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(s.dir, artifactName(day, slot, kind))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}

	return path, nil
}

// ListDay returns the day's report files (scripts excluded), sorted by name
// so AM precedes PM.
func (s *ReportStore) ListDay(day time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	prefix := domain.DateToken(day)
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !reportNameExpr.MatchString(name) {
			continue
		}
		if name[:len(prefix)] != prefix {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

// Read loads an artifact body by path.
func (s *ReportStore) Read(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	return string(raw), nil
}

// ReportPath reports whether the day's report artifact for a slot already
// exists.
func (s *ReportStore) ReportPath(day time.Time, slot domain.Slot) (string, bool) {
	path := filepath.Join(s.dir, artifactName(day, slot, domain.KindReport))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func artifactName(day time.Time, slot domain.Slot, kind domain.ArtifactKind) string {
	return fmt.Sprintf("%s_%s_%s.md", domain.DateToken(day), slot, kind)
}
