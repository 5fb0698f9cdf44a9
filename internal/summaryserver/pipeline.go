// Package summaryserver exposes the video summary pipeline over REST and MCP.
package summaryserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
	"github.com/anatolykoptev/go_ytsum/internal/engine/sources"
)

// CaptionSource resolves a video's caption track and returns its parsed segments.
type CaptionSource interface {
	Transcript(ctx context.Context, videoID string) (*engine.Transcript, error)
}

// Completer generates text from a system instruction and a user prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const (
	defaultMaxTranscriptChars = 60000
	fallbackParagraphChars    = 150
	slowPipelineThreshold     = 30 * time.Second
)

// Pipeline sequences transcript acquisition, normalization and the two LLM passes.
type Pipeline struct {
	captions           CaptionSource
	llm                Completer
	maxTranscriptChars int
}

// NewPipeline wires a pipeline; maxTranscriptChars caps the text sent to the LLM
// (0 selects the default).
func NewPipeline(captions CaptionSource, llm Completer, maxTranscriptChars int) *Pipeline {
	if maxTranscriptChars <= 0 {
		maxTranscriptChars = defaultMaxTranscriptChars
	}
	return &Pipeline{captions: captions, llm: llm, maxTranscriptChars: maxTranscriptChars}
}

// Summarize produces the proofread transcript paragraphs and the formatted summary.
// Either both are returned or an error; there is no partial result.
func (p *Pipeline) Summarize(ctx context.Context, videoURL string) (out *engine.VideoSummaryOutput, err error) {
	engine.IncrSummaryRequests()
	err = engine.TrackOperation(ctx, "summarize", slowPipelineThreshold, func(ctx context.Context) error {
		var runErr error
		out, runErr = p.summarize(ctx, videoURL)
		return runErr
	})
	if err != nil {
		engine.IncrSummaryErrors()
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) summarize(ctx context.Context, videoURL string) (*engine.VideoSummaryOutput, error) {
	tr, text, err := p.cleanTranscript(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	slog.Info("summarize: proofreading transcript",
		slog.String("id", tr.VideoID), slog.Int("chars", len(text)))
	proofread, err := p.llm.Complete(ctx, engine.ProofreadSystem,
		fmt.Sprintf(engine.ProofreadPrompt, engine.TruncateAtWord(text, p.maxTranscriptChars)))
	if err != nil {
		return nil, fmt.Errorf("%w: proofread: %w", engine.ErrProcessing, err)
	}

	paragraphs := engine.SplitParagraphs(proofread)
	if len(paragraphs) == 0 {
		slog.Warn("summarize: proofread pass returned no paragraphs, chunking captions",
			slog.String("id", tr.VideoID))
		paragraphs = engine.ChunkSegments(tr.Segments, fallbackParagraphChars)
	}

	summary, err := p.llm.Complete(ctx, engine.SummarySystem,
		fmt.Sprintf(engine.SummaryPrompt, engine.TruncateAtWord(strings.Join(paragraphs, "\n\n"), p.maxTranscriptChars)))
	if err != nil {
		return nil, fmt.Errorf("%w: summary: %w", engine.ErrProcessing, err)
	}
	formatted := engine.FormatSummary(summary)
	if formatted == "" {
		return nil, fmt.Errorf("%w: summary: empty completion", engine.ErrProcessing)
	}

	slog.Info("summarize: done",
		slog.String("id", tr.VideoID),
		slog.Int("paragraphs", len(paragraphs)),
		slog.Int("summary_chars", len(formatted)))
	return &engine.VideoSummaryOutput{Transcript: paragraphs, Summary: formatted}, nil
}

// Transcript returns the cleaned transcript and caption diagnostics without AI calls.
func (p *Pipeline) Transcript(ctx context.Context, videoURL string) (*engine.VideoTranscriptOutput, error) {
	engine.IncrTranscriptRequests()
	tr, text, err := p.cleanTranscript(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	return &engine.VideoTranscriptOutput{
		VideoID:            tr.VideoID,
		Language:           tr.Track.LanguageCode,
		IsGenerated:        tr.Track.AutoGenerated,
		AvailableLanguages: tr.Languages,
		SegmentCount:       len(tr.Segments),
		Text:               text,
		Paragraphs:         engine.ChunkSegments(tr.Segments, fallbackParagraphChars),
	}, nil
}

// cleanTranscript extracts the video ID, fetches captions and normalizes their text.
func (p *Pipeline) cleanTranscript(ctx context.Context, videoURL string) (*engine.Transcript, string, error) {
	videoID, err := sources.ExtractVideoID(videoURL)
	if err != nil {
		return nil, "", err
	}

	slog.Info("summarize: fetching transcript", slog.String("id", videoID))
	tr, err := p.captions.Transcript(ctx, videoID)
	if err != nil {
		return nil, "", err
	}
	if len(tr.Segments) == 0 {
		return nil, "", fmt.Errorf("%w: video %s", engine.ErrTranscriptUnavailable, videoID)
	}

	text := engine.NormalizeSegments(tr.Segments)
	if text == "" {
		return nil, "", fmt.Errorf("%w: video %s", engine.ErrTranscriptUnavailable, videoID)
	}
	return tr, text, nil
}
