package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nice7girl/bws-invest-agent/internal/config"
	"github.com/nice7girl/bws-invest-agent/internal/domain"
	"github.com/nice7girl/bws-invest-agent/internal/ports"
)

const (
	userAgent    = "bws-invest-agent/1.0"
	watchURL     = "https://www.youtube.com/watch"
	timedtextURL = "https://video.google.com/timedtext"
)

var captionTracksExpr = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// captionTrack mirrors the track descriptors embedded in the watch page.
// Kind "asr" marks an auto-generated track.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// segment is one caption cue of the timedtext payload.
type segment struct {
	Text     string
	Start    float64
	Duration float64
}

// TranscriptExtractor fetches caption transcripts with layered fallbacks.
type TranscriptExtractor struct {
	language      string
	client        *http.Client
	logger        *slog.Logger
	watchBase     string
	timedtextBase string
}

var _ ports.ContentExtractor = (*TranscriptExtractor)(nil)

// NewTranscriptExtractor wires an HTTP client; timeout defaults to the
// configured transcript timeout, falling back to 10s.
func NewTranscriptExtractor(cfg config.TranscriptConfig, client *http.Client, log *slog.Logger) *TranscriptExtractor {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	language := cfg.Language
	if language == "" {
		language = "ko"
	}
	return &TranscriptExtractor{
		language:      language,
		client:        client,
		logger:        log,
		watchBase:     watchURL,
		timedtextBase: timedtextURL,
	}
}

// Extract tries each strategy in order and returns the first transcript
// produced. A nil transcript with nil error means no caption track exists
// yet; lower-level failures are logged, never propagated.
func (t *TranscriptExtractor) Extract(ctx context.Context, videoID string) (*domain.Transcript, error) {
	strategies := []struct {
		name string
		run  func(context.Context, string) (string, error)
	}{
		{"track-listing", t.fromTrackListing},
		{"direct-timedtext", t.fromDirectFetch},
	}

	for _, strategy := range strategies {
		text, err := strategy.run(ctx, videoID)
		if err != nil {
			t.info("transcript strategy failed", "strategy", strategy.name, "video", videoID, "error", err)
			continue
		}
		if text == "" {
			t.info("transcript strategy returned no segments", "strategy", strategy.name, "video", videoID)
			continue
		}
		return &domain.Transcript{VideoID: videoID, Text: text, Language: t.language}, nil
	}

	return nil, nil
}

// fromTrackListing reads the caption-track descriptors embedded in the watch
// page and fetches the best matching track: a generated track in the
// preferred language wins, then any track in that language.
func (t *TranscriptExtractor) fromTrackListing(ctx context.Context, videoID string) (string, error) {
	page, err := t.get(ctx, t.watchBase+"?v="+url.QueryEscape(videoID))
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}

	match := captionTracksExpr.FindStringSubmatch(page)
	if match == nil {
		return "", fmt.Errorf("no caption tracks on watch page")
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(match[1]), &tracks); err != nil {
		return "", fmt.Errorf("parse caption tracks: %w", err)
	}

	track, ok := selectTrack(tracks, t.language)
	if !ok {
		return "", fmt.Errorf("no %s caption track among %d tracks", t.language, len(tracks))
	}

	payload, err := t.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("fetch track: %w", err)
	}

	return joinSegments(parseSegments(payload)), nil
}

// fromDirectFetch asks the timedtext endpoint for the preferred language in
// a single call, a structurally different path for when the listing breaks.
func (t *TranscriptExtractor) fromDirectFetch(ctx context.Context, videoID string) (string, error) {
	query := url.Values{}
	query.Set("lang", t.language)
	query.Set("v", videoID)

	payload, err := t.get(ctx, t.timedtextBase+"?"+query.Encode())
	if err != nil {
		return "", fmt.Errorf("timedtext: %w", err)
	}

	return joinSegments(parseSegments(payload)), nil
}

// selectTrack prefers the generated (asr) track for the language, then any
// track in that language.
func selectTrack(tracks []captionTrack, language string) (captionTrack, bool) {
	for _, track := range tracks {
		if track.LanguageCode == language && track.Kind == "asr" {
			return track, true
		}
	}
	for _, track := range tracks {
		if track.LanguageCode == language {
			return track, true
		}
	}
	return captionTrack{}, false
}

// parseSegments extracts the <text> cues of a timedtext payload in document
// order.
func parseSegments(payload string) []segment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(payload))
	if err != nil {
		return nil
	}

	var segments []segment
	doc.Find("text").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		seg := segment{Text: text}
		if v, ok := sel.Attr("start"); ok {
			fmt.Sscanf(v, "%f", &seg.Start)
		}
		if v, ok := sel.Attr("dur"); ok {
			fmt.Sscanf(v, "%f", &seg.Duration)
		}
		segments = append(segments, seg)
	})

	return segments
}

// joinSegments concatenates cue texts with single spaces, preserving order.
func joinSegments(segments []segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

func (t *TranscriptExtractor) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(raw), nil
}

func (t *TranscriptExtractor) info(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}
