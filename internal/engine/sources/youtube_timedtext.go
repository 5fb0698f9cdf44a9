package sources

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
)

// FetchTimedText downloads the timedtext XML for track and parses it into segments.
func (y *YouTube) FetchTimedText(ctx context.Context, track engine.CaptionTrack) ([]engine.TranscriptSegment, error) {
	if track.SourceURL == "" {
		return nil, fmt.Errorf("%w: track %q has no source URL", engine.ErrTranscriptFetch, track.LanguageCode)
	}
	engine.IncrTimedTextFetches()

	body, err := y.get(ctx, track.SourceURL, map[string]string{
		"User-Agent": engine.UserAgentBot,
		"Accept":     "application/xml,text/xml;q=0.9,*/*;q=0.8",
	}, ytTimedTextLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: timedtext: %w", engine.ErrTranscriptFetch, err)
	}
	return ParseTimedText(bytes.NewReader(body))
}

// ParseTimedText decodes a timedtext document. Every <text> element becomes one segment;
// its start and dur attributes are required finite, non-negative seconds.
func ParseTimedText(r io.Reader) ([]engine.TranscriptSegment, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	var (
		segs    []engine.TranscriptSegment
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse timedtext XML: %w", engine.ErrTranscriptFetch, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "text" {
			continue
		}
		seg, err := parseTextElement(dec, start, len(segs))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", engine.ErrTranscriptFetch, err)
		}
		segs = append(segs, seg)
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: empty timedtext document", engine.ErrTranscriptFetch)
	}
	return segs, nil
}

// parseTextElement reads one <text> element through its end tag.
func parseTextElement(dec *xml.Decoder, el xml.StartElement, idx int) (engine.TranscriptSegment, error) {
	startSec, err := secondsAttr(el, "start")
	if err != nil {
		return engine.TranscriptSegment{}, fmt.Errorf("segment %d: %w", idx, err)
	}
	dur, err := secondsAttr(el, "dur")
	if err != nil {
		return engine.TranscriptSegment{}, fmt.Errorf("segment %d: %w", idx, err)
	}

	var sb strings.Builder
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			return engine.TranscriptSegment{}, fmt.Errorf("segment %d: %w", idx, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return engine.TranscriptSegment{Text: sb.String(), Start: startSec, Duration: dur}, nil
}

func secondsAttr(el xml.StartElement, name string) (float64, error) {
	for _, a := range el.Attr {
		if a.Name.Local != name {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
		if err != nil {
			return 0, fmt.Errorf("attribute %s=%q: not a number", name, a.Value)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, fmt.Errorf("attribute %s=%q: out of range", name, a.Value)
		}
		return v, nil
	}
	return 0, fmt.Errorf("missing %s attribute", name)
}
