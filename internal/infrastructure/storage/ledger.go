package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// Ledger is the append-only log of delivered report names, one per line.
// It is loaded fully into memory when opened; MarkDelivered appends through
// the same handle. A single writer at a time is assumed.
type Ledger struct {
	path      string
	delivered map[string]struct{}
}

var _ ports.DeliveryLedger = (*Ledger)(nil)

// OpenLedger loads the delivered set from disk. A missing file is an empty
// ledger, not an error.
func OpenLedger(path string) (*Ledger, error) {
	ledger := &Ledger{path: path, delivered: map[string]struct{}{}}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ledger, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			ledger.delivered[name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	return ledger, nil
}

// IsDelivered reports whether a report name was already sent.
func (l *Ledger) IsDelivered(name string) bool {
	_, ok := l.delivered[name]
	return ok
}

// MarkDelivered appends the name to the log. Names already present are
// skipped so duplicate lines do not accumulate.
func (l *Ledger) MarkDelivered(name string) error {
	if l.IsDelivered(name) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(name + "\n"); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	l.delivered[name] = struct{}{}
	return nil
}
