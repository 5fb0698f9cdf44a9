package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// YouTube watch page constants and embedded player response types.
// Track listing and selection live in youtube_tracks.go.

const (
	ytWatchBaseURL    = "https://www.youtube.com"
	ytCaptionsMarker  = `"captions":`
	ytWatchPageLimit  = 6 * 1024 * 1024
	ytTimedTextLimit  = 2 * 1024 * 1024
	defaultFetchLimit = 10 * time.Second
)

// YouTube fetches caption metadata and timedtext documents for videos.
// Safe for concurrent use; it holds no per-request state.
type YouTube struct {
	client       *http.Client
	baseURL      string
	fetchTimeout time.Duration
	limiter      *rate.Limiter
}

// YouTubeOption customizes a YouTube source.
type YouTubeOption func(*YouTube)

// WithBaseURL overrides the watch page origin (tests, mirrors).
func WithBaseURL(u string) YouTubeOption {
	return func(y *YouTube) { y.baseURL = u }
}

// WithFetchTimeout bounds each outbound fetch.
func WithFetchTimeout(d time.Duration) YouTubeOption {
	return func(y *YouTube) {
		if d > 0 {
			y.fetchTimeout = d
		}
	}
}

// WithRateLimit paces outbound requests to perSecond; 0 disables pacing.
func WithRateLimit(perSecond float64) YouTubeOption {
	return func(y *YouTube) {
		if perSecond > 0 {
			y.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond)))
		}
	}
}

// NewYouTube creates a YouTube source using client for all outbound requests.
func NewYouTube(client *http.Client, opts ...YouTubeOption) *YouTube {
	if client == nil {
		client = http.DefaultClient
	}
	y := &YouTube{
		client:       client,
		baseURL:      ytWatchBaseURL,
		fetchTimeout: defaultFetchLimit,
	}
	for _, o := range opts {
		o(y)
	}
	return y
}

// --- Embedded captions JSON types ---

type ytCaptions struct {
	PlayerCaptionsTracklistRenderer *struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

// get performs a paced, retried GET and returns the body; a body over limit bytes is an error.
func (y *YouTube) get(ctx context.Context, target string, headers map[string]string, limit int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, y.fetchTimeout)
	defer cancel()

	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return y.client.Do(req)
	})
	if err != nil {
		engine.IncrFetchErrors()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		engine.IncrFetchErrors()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		engine.IncrFetchErrors()
		return nil, err
	}
	if int64(len(body)) > limit {
		engine.IncrFetchErrors()
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return body, nil
}

// fetchWatchPage downloads the watch page HTML for videoID.
func (y *YouTube) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	engine.IncrCaptionPageFetches()
	return y.get(ctx, y.baseURL+"/watch?v="+videoID, engine.BrowserHeaders(), ytWatchPageLimit)
}

// extractCaptions locates and decodes the embedded "captions" object in page.
// Occurrences without a track list renderer are skipped.
func extractCaptions(page []byte) (*ytCaptions, error) {
	marker := []byte(ytCaptionsMarker)
	found := false
	for rest := page; ; {
		idx := bytes.Index(rest, marker)
		if idx < 0 {
			break
		}
		found = true
		rest = rest[idx+len(marker):]
		raw := extractJSON(bytes.TrimLeft(rest, " \t\r\n"))
		if raw == nil {
			continue
		}
		var caps ytCaptions
		if err := json.Unmarshal(raw, &caps); err != nil || caps.PlayerCaptionsTracklistRenderer == nil {
			continue
		}
		return &caps, nil
	}
	if found {
		return nil, fmt.Errorf("%w: playerCaptionsTracklistRenderer missing", engine.ErrNoCaptionsData)
	}
	return nil, engine.ErrNoCaptionsData
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

