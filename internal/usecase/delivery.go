package usecase

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

const (
	maxMessageChars  = 4000
	truncationMarker = "\n\n...(truncated)"
)

var boldExpr = regexp.MustCompile(`\*\*(.*?)\*\*`)

// DeliveryDeps wires the scan over stored reports.
type DeliveryDeps struct {
	Store      ports.ArtifactStore
	Ledger     ports.DeliveryLedger
	Sender     ports.MessageSender
	FooterLink string
	Logger     *slog.Logger
}

// Delivery sends the day's undelivered reports to the chat channel exactly
// once each, gated by the ledger.
type Delivery struct {
	store      ports.ArtifactStore
	ledger     ports.DeliveryLedger
	sender     ports.MessageSender
	footerLink string
	logger     *slog.Logger
}

// NewDelivery constructs the delivery scan.
func NewDelivery(deps DeliveryDeps) *Delivery {
	return &Delivery{
		store:      deps.Store,
		ledger:     deps.Ledger,
		sender:     deps.Sender,
		footerLink: deps.FooterLink,
		logger:     deps.Logger,
	}
}

// Scan walks the day's report artifacts and delivers each one not yet in
// the ledger. A send failure leaves the artifact eligible for the next
// scan; a ledger write failure is fatal, since losing the record would
// cause a duplicate send later.
func (d *Delivery) Scan(ctx context.Context, day time.Time) error {
	paths, err := d.store.ListDay(day)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	d.info("delivery scan", "day", domain.DateToken(day), "reports", len(paths))

	for _, path := range paths {
		name := filepath.Base(path)
		if d.ledger.IsDelivered(name) {
			continue
		}

		body, err := d.store.Read(path)
		if err != nil {
			return fmt.Errorf("read report %s: %w", name, err)
		}

		message := RenderMessage(body, slotFromName(name), d.footerLink)
		if err := d.sender.Send(ctx, message); err != nil {
			d.warn("delivery failed, will retry on next scan", "report", name, "error", err)
			continue
		}

		if err := d.ledger.MarkDelivered(name); err != nil {
			return fmt.Errorf("mark delivered %s: %w", name, err)
		}
		d.info("report delivered", "report", name)
	}

	return nil
}

// RenderMessage builds the Telegram HTML payload: escaped body with the
// **bold** convention mapped to <b> tags, a slot title, and the channel
// footer link. Payloads above the transport ceiling are truncated with a
// visible marker; the data loss is deliberate.
func RenderMessage(body string, slot domain.Slot, footerLink string) string {
	escaped := html.EscapeString(body)
	formatted := boldExpr.ReplaceAllString(escaped, "<b>$1</b>")

	title := fmt.Sprintf("☀️ <b>BWS Invest Briefing (%s)</b>", slot.DisplayName())
	message := title + "\n\n" + formatted
	if footerLink != "" {
		message += "\n\n" + footerLink
	}

	return truncate(message, maxMessageChars)
}

// truncate caps the payload at limit characters plus the marker.
func truncate(message string, limit int) string {
	runes := []rune(message)
	if len(runes) <= limit {
		return message
	}
	return string(runes[:limit]) + truncationMarker
}

// slotFromName recovers the slot from the artifact file name.
func slotFromName(name string) domain.Slot {
	if strings.Contains(name, "_PM_") {
		return domain.SlotEvening
	}
	return domain.SlotMorning
}

func (d *Delivery) info(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Delivery) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
