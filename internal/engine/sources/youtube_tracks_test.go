package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
)

func TestSelectTrack(t *testing.T) {
	de := engine.CaptionTrack{LanguageCode: "de", SourceURL: "de"}
	en := engine.CaptionTrack{LanguageCode: "en", SourceURL: "en"}
	enGB := engine.CaptionTrack{LanguageCode: "en-GB", SourceURL: "en-GB"}
	fr := engine.CaptionTrack{LanguageCode: "fr", SourceURL: "fr"}

	tests := []struct {
		name   string
		tracks []engine.CaptionTrack
		want   string
	}{
		{"en first", []engine.CaptionTrack{en, de}, "en"},
		{"en last", []engine.CaptionTrack{de, fr, en}, "en"},
		{"en middle", []engine.CaptionTrack{de, en, fr}, "en"},
		{"no en picks first", []engine.CaptionTrack{fr, de}, "fr"},
		{"en-GB is not en", []engine.CaptionTrack{enGB, de}, "en-GB"},
		{"single", []engine.CaptionTrack{de}, "de"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTrack(tt.tracks)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.SourceURL != tt.want {
				t.Errorf("SelectTrack() = %q, want %q", got.SourceURL, tt.want)
			}
		})
	}
}

func TestSelectTrackEmpty(t *testing.T) {
	for _, tracks := range [][]engine.CaptionTrack{nil, {}} {
		got, err := SelectTrack(tracks)
		if !errors.Is(err, engine.ErrNoCaptionTracks) {
			t.Errorf("SelectTrack(empty) = %+v, %v; want ErrNoCaptionTracks", got, err)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1} trailing`, `{"a":1}`},
		{"nested", `{"a":{"b":{}}};var x`, `{"a":{"b":{}}}`},
		{"brace in string", `{"a":"}{"}rest`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"x\"}"}rest`, `{"a":"x\"}"}`},
		{"escaped backslash", `{"a":"x\\"}rest`, `{"a":"x\\"}`},
		{"unterminated", `{"a":1`, ""},
		{"not object", `[1,2]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(extractJSON([]byte(tt.in))); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractCaptions(t *testing.T) {
	t.Run("no captions key", func(t *testing.T) {
		_, err := extractCaptions([]byte(`<html>var ytInitialPlayerResponse = {"videoDetails":{}};</html>`))
		if !errors.Is(err, engine.ErrNoCaptionsData) {
			t.Errorf("got %v, want ErrNoCaptionsData", err)
		}
	})
	t.Run("renderer missing", func(t *testing.T) {
		_, err := extractCaptions([]byte(`{"captions": {"other":{}}}`))
		if !errors.Is(err, engine.ErrNoCaptionsData) {
			t.Errorf("got %v, want ErrNoCaptionsData", err)
		}
	})
	t.Run("skips unrelated occurrence", func(t *testing.T) {
		page := `{"captions":"off"} ... {"captions": {"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"u","languageCode":"en"}]}}}`
		caps, err := extractCaptions([]byte(page))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(caps.PlayerCaptionsTracklistRenderer.CaptionTracks); n != 1 {
			t.Errorf("got %d tracks, want 1", n)
		}
	})
}

// watchPage renders a minimal watch page embedding the given captionTracks JSON.
func watchPage(tracksJSON string) string {
	return `<html><script>var ytInitialPlayerResponse = {"playabilityStatus":{"status":"OK"},` +
		`"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":` + tracksJSON + `}},"videoDetails":{}};</script></html>`
}

// newFakeYouTube serves a watch page and timedtext documents keyed by language.
func newFakeYouTube(t *testing.T, page func(base string) string, timedtext map[string]string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			if r.URL.Query().Get("v") == "" {
				http.Error(w, "missing v", http.StatusBadRequest)
				return
			}
			fmt.Fprint(w, page(srv.URL))
		case "/api/timedtext":
			body, ok := timedtext[r.URL.Query().Get("lang")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/xml")
			fmt.Fprint(w, body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

const threeSegments = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0.5" dur="2.1">We&amp;#39;re no strangers</text>` +
	`<text start="2.6" dur="1.9">to love...</text>` +
	`<text start="4.5" dur="3">you know   the rules</text></transcript>`

func TestYouTubeTranscript(t *testing.T) {
	srv := newFakeYouTube(t, func(base string) string {
		return watchPage(`[` +
			`{"baseUrl":"` + base + `/api/timedtext?v=dQw4w9WgXcQ&lang=de","languageCode":"de","name":{"simpleText":"German"}},` +
			`{"baseUrl":"` + base + `/api/timedtext?v=dQw4w9WgXcQ&lang=en","languageCode":"en","kind":"asr","name":{"runs":[{"text":"English "},{"text":"(auto-generated)"}]}}]`)
	}, map[string]string{"en": threeSegments})

	yt := NewYouTube(srv.Client(), WithBaseURL(srv.URL), WithFetchTimeout(5*time.Second), WithRateLimit(100))
	tr, err := yt.Transcript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if tr.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q", tr.VideoID)
	}
	if tr.Track.LanguageCode != "en" || !tr.Track.AutoGenerated {
		t.Errorf("selected track = %+v, want auto-generated en", tr.Track)
	}
	wantLangs := []engine.Language{{Code: "de", Name: "German"}, {Code: "en", Name: "English (auto-generated)"}}
	if len(tr.Languages) != 2 || tr.Languages[0] != wantLangs[0] || tr.Languages[1] != wantLangs[1] {
		t.Errorf("Languages = %+v, want %+v", tr.Languages, wantLangs)
	}
	if len(tr.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(tr.Segments))
	}
	if tr.Segments[0].Start != 0.5 || tr.Segments[0].Duration != 2.1 {
		t.Errorf("segment timing = %+v", tr.Segments[0])
	}
	want := "We're no strangers to love. you know the rules"
	if got := engine.NormalizeSegments(tr.Segments); got != want {
		t.Errorf("normalized = %q, want %q", got, want)
	}
}

func TestYouTubeTranscriptFallsBackToFirstTrack(t *testing.T) {
	srv := newFakeYouTube(t, func(base string) string {
		return watchPage(`[{"baseUrl":"` + base + `/api/timedtext?lang=es","languageCode":"es"},` +
			`{"baseUrl":"` + base + `/api/timedtext?lang=fr","languageCode":"fr"}]`)
	}, map[string]string{"es": `<transcript><text start="0" dur="1">hola</text></transcript>`})

	yt := NewYouTube(srv.Client(), WithBaseURL(srv.URL))
	tr, err := yt.Transcript(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if tr.Track.LanguageCode != "es" {
		t.Errorf("selected %q, want es", tr.Track.LanguageCode)
	}
}

func TestYouTubeTranscriptErrors(t *testing.T) {
	tests := []struct {
		name string
		page func(base string) string
		want error
	}{
		{"no captions", func(string) string { return `<html>{"playabilityStatus":{"status":"OK"}}</html>` }, engine.ErrNoCaptionsData},
		{"zero tracks", func(string) string { return watchPage(`[]`) }, engine.ErrNoCaptionTracks},
		{"timedtext 404", func(base string) string {
			return watchPage(`[{"baseUrl":"` + base + `/api/timedtext?lang=xx","languageCode":"en"}]`)
		}, engine.ErrTranscriptFetch},
		{"timedtext malformed", func(base string) string {
			return watchPage(`[{"baseUrl":"` + base + `/api/timedtext?lang=bad","languageCode":"en"}]`)
		}, engine.ErrTranscriptFetch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeYouTube(t, tt.page, map[string]string{"bad": `<transcript><text start="x" dur="1">a</text></transcript>`})
			yt := NewYouTube(srv.Client(), WithBaseURL(srv.URL))
			_, err := yt.Transcript(context.Background(), "dQw4w9WgXcQ")
			if !errors.Is(err, tt.want) {
				t.Errorf("Transcript() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestYouTubeWatchPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	yt := NewYouTube(srv.Client(), WithBaseURL(srv.URL))
	_, err := yt.CaptionTracks(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, engine.ErrTranscriptFetch) {
		t.Fatalf("got %v, want ErrTranscriptFetch", err)
	}
	if !strings.Contains(err.Error(), "410") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestNeedsPoToken(t *testing.T) {
	if !needsPoToken("https://www.youtube.com/api/timedtext?v=x&exp=xpe&lang=en") {
		t.Error("expected PoToken requirement")
	}
	if needsPoToken("https://www.youtube.com/api/timedtext?v=x&lang=en") {
		t.Error("unexpected PoToken requirement")
	}
}

func TestYouTubeGetRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.Repeat("x", 65))
	}))
	defer srv.Close()

	yt := NewYouTube(srv.Client(), WithBaseURL(srv.URL))
	if _, err := yt.get(context.Background(), srv.URL, nil, 64); err == nil || !strings.Contains(err.Error(), "exceeds 64 bytes") {
		t.Errorf("get() error = %v, want size limit error", err)
	}
	body, err := yt.get(context.Background(), srv.URL, nil, 65)
	if err != nil {
		t.Fatalf("get() at exact limit: %v", err)
	}
	if len(body) != 65 {
		t.Errorf("got %d bytes, want 65", len(body))
	}
}

func TestYouTubeOversizedWatchPageIsFetchError(t *testing.T) {
	srv := newFakeYouTube(t, func(string) string {
		return strings.Repeat(" ", ytWatchPageLimit) + watchPage(`[]`)
	}, nil)

	yt := NewYouTube(srv.Client(), WithBaseURL(srv.URL))
	_, err := yt.CaptionTracks(context.Background(), "dQw4w9WgXcQ")
	if !errors.Is(err, engine.ErrTranscriptFetch) {
		t.Fatalf("got %v, want ErrTranscriptFetch", err)
	}
	if engine.IsClientError(err) {
		t.Errorf("oversized page reported as client error: %v", err)
	}
}
