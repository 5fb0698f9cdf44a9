package engine

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// BlockKind is the structural class of a formatted summary line.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockBullet
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockBullet:
		return "bullet"
	default:
		return "paragraph"
	}
}

// LineRule classifies a trimmed, non-empty line.
type LineRule struct {
	Kind  BlockKind
	Match func(line string) bool
}

// LineRules are evaluated in order; the first match wins and unmatched lines are paragraphs.
var LineRules = []LineRule{
	{Kind: BlockHeading, Match: IsHeading},
	{Kind: BlockBullet, Match: IsBullet},
}

var (
	numberedItemRe = regexp.MustCompile(`^\d+\.`)
	boldRe         = regexp.MustCompile(`\*\*(.+?)\*\*`)
	blankLineRe    = regexp.MustCompile(`\n[ \t]*\n`)
)

// IsHeading reports a markdown header, a bold-led line, a line ending with a colon,
// or an all-caps line.
func IsHeading(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "**") ||
		strings.HasSuffix(line, ":") ||
		isUpper(line)
}

// IsBullet reports a dash, bullet or asterisk item, or a numbered list item.
func IsBullet(line string) bool {
	return strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "•") ||
		strings.HasPrefix(line, "* ") ||
		numberedItemRe.MatchString(line)
}

// isUpper reports whether s has at least one cased letter and no lower-case letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// ClassifyLine returns the block kind for a trimmed line.
func ClassifyLine(line string) BlockKind {
	for _, r := range LineRules {
		if r.Match(line) {
			return r.Kind
		}
	}
	return BlockParagraph
}

// FormatSummary renders AI summary text as HTML paragraph blocks, one per non-empty line.
func FormatSummary(text string) string {
	var blocks []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if block := renderLine(line); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n")
}

// renderLine returns "" for a heading with no text, such as a bare "##" or "**".
func renderLine(line string) string {
	switch ClassifyLine(line) {
	case BlockHeading:
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if inner, ok := strings.CutPrefix(title, "**"); ok {
			if inner, ok = strings.CutSuffix(inner, "**"); ok && !strings.Contains(inner, "**") {
				title = strings.TrimSpace(inner)
			}
		}
		if strings.Trim(title, "* ") == "" {
			return ""
		}
		return `<p style="margin-top: 20px; margin-bottom: 10px;"><strong>` + emphasize(title) + `</strong></p>`
	case BlockBullet:
		return `<p style="margin-left: 20px; margin-bottom: 10px;">` + emphasize(line) + `</p>`
	default:
		return `<p style="margin-bottom: 15px;">` + emphasize(line) + `</p>`
	}
}

// emphasize escapes s and turns **text** into <strong>text</strong>.
func emphasize(s string) string {
	return boldRe.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>")
}

// SplitParagraphs splits prose on blank lines, joins wrapped lines and drops empty paragraphs.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range blankLineRe.Split(text, -1) {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ChunkSegments groups segment texts into paragraphs, breaking after a sentence-final
// period or once a paragraph exceeds limit bytes.
func ChunkSegments(segs []TranscriptSegment, limit int) []string {
	var (
		out     []string
		current []string
		size    int
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, NormalizeText(strings.Join(current, " ")))
			current, size = current[:0], 0
		}
	}
	for _, s := range segs {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		current = append(current, text)
		size += len(text) + 1
		if size > limit || strings.HasSuffix(text, ".") {
			flush()
		}
	}
	flush()
	return out
}
