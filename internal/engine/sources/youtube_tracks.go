package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
)

// preferredLanguage is the caption language chosen whenever the video offers it.
const preferredLanguage = "en"

// CaptionTracks lists the caption tracks embedded in the video's watch page, in page order.
func (y *YouTube) CaptionTracks(ctx context.Context, videoID string) ([]engine.CaptionTrack, error) {
	page, err := y.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: watch page: %w", engine.ErrTranscriptFetch, err)
	}
	caps, err := extractCaptions(page)
	if err != nil {
		return nil, err
	}

	raw := caps.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(raw) == 0 {
		return nil, engine.ErrNoCaptionTracks
	}
	tracks := make([]engine.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, engine.CaptionTrack{
			LanguageCode:  t.LanguageCode,
			DisplayName:   trackName(t),
			SourceURL:     t.BaseURL,
			AutoGenerated: t.Kind == "asr",
		})
	}
	return tracks, nil
}

func trackName(t captionTrack) string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var sb strings.Builder
	for _, r := range t.Name.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// SelectTrack picks the English track if present, otherwise the first track.
func SelectTrack(tracks []engine.CaptionTrack) (engine.CaptionTrack, error) {
	if len(tracks) == 0 {
		return engine.CaptionTrack{}, engine.ErrNoCaptionTracks
	}
	for _, t := range tracks {
		if t.LanguageCode == preferredLanguage {
			return t, nil
		}
	}
	return tracks[0], nil
}

// Languages lists code and display name for every track, for diagnostics.
func Languages(tracks []engine.CaptionTrack) []engine.Language {
	out := make([]engine.Language, len(tracks))
	for i, t := range tracks {
		out[i] = engine.Language{Code: t.LanguageCode, Name: t.DisplayName}
	}
	return out
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe usually return an empty document server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// Transcript resolves the caption track for videoID and returns its parsed segments.
func (y *YouTube) Transcript(ctx context.Context, videoID string) (*engine.Transcript, error) {
	tracks, err := y.CaptionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	track, err := SelectTrack(tracks)
	if err != nil {
		return nil, err
	}

	langs := Languages(tracks)
	if track.LanguageCode != preferredLanguage {
		slog.Info("youtube: no English transcript, using first track",
			slog.String("id", videoID), slog.String("lang", track.LanguageCode))
	}
	slog.Debug("youtube: caption tracks",
		slog.String("id", videoID),
		slog.String("selected", track.LanguageCode),
		slog.Bool("asr", track.AutoGenerated),
		slog.Any("available", langs))
	if needsPoToken(track.SourceURL) {
		slog.Warn("youtube: selected track may require PoToken", slog.String("id", videoID))
	}

	segs, err := y.FetchTimedText(ctx, track)
	if err != nil {
		return nil, err
	}
	return &engine.Transcript{
		VideoID:   videoID,
		Track:     track,
		Languages: langs,
		Segments:  segs,
	}, nil
}
