package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

// Playlist pages embed their item list as JSON inside a script tag; the
// videoId/title pairs appear in publication order, newest first.
var itemExpr = regexp.MustCompile(`"videoId":"([^"]+)".*?"title":\{"runs":\[\{"text":"([^"]+)"\}\]`)

const maxListingBytes = 4 << 20

// PlaylistLocator finds today's video in the slot's playlist listing page.
type PlaylistLocator struct {
	playlists config.PlaylistConfig
	client    *http.Client
	logger    *slog.Logger
}

var _ ports.SourceLocator = (*PlaylistLocator)(nil)

// NewPlaylistLocator wires an HTTP client; timeout defaults to 10s.
func NewPlaylistLocator(playlists config.PlaylistConfig, client *http.Client, log *slog.Logger) *PlaylistLocator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &PlaylistLocator{playlists: playlists, client: client, logger: log}
}

// Locate scrapes the playlist listing and returns the first item whose title
// contains the day's YYYYMMDD token. When no title is dated yet (publication
// skew) it falls back to the first listed item. A nil item with nil error
// means the listing was unreachable or empty; retry happens upstream.
func (p *PlaylistLocator) Locate(ctx context.Context, slot domain.Slot, day time.Time) (*domain.SourceItem, error) {
	listingURL := p.playlistURL(slot)
	if listingURL == "" {
		return nil, fmt.Errorf("no playlist configured for slot %s", slot)
	}

	body, err := p.fetchListing(ctx, listingURL)
	if err != nil {
		p.info("playlist fetch failed", "slot", slot, "error", err)
		return nil, nil
	}

	pairs := itemExpr.FindAllStringSubmatch(body, -1)
	if len(pairs) == 0 {
		p.info("playlist listing yielded no items", "slot", slot)
		return nil, nil
	}

	token := domain.DateToken(day)
	for _, pair := range pairs {
		id, title := pair[1], pair[2]
		if strings.Contains(title, token) {
			p.info("matched today's video", "slot", slot, "video", id, "title", title)
			return &domain.SourceItem{ID: id, Title: title, DiscoveredAt: time.Now()}, nil
		}
	}

	// The newest upload may not carry today's token yet.
	first := pairs[0]
	p.info("no dated title, using first listed item", "slot", slot, "video", first[1])
	return &domain.SourceItem{ID: first[1], Title: first[2], DiscoveredAt: time.Now()}, nil
}

func (p *PlaylistLocator) playlistURL(slot domain.Slot) string {
	if slot == domain.SlotEvening {
		return p.playlists.EveningURL
	}
	return p.playlists.MorningURL
}

func (p *PlaylistLocator) fetchListing(ctx context.Context, listingURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("playlist returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes))
	if err != nil {
		return "", fmt.Errorf("read listing: %w", err)
	}

	return string(raw), nil
}

func (p *PlaylistLocator) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
