package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"
)

var (
	periodRunRe     = regexp.MustCompile(`\.{2,}`)
	whitespaceRunRe = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// entityFallbacks are collapsed explicitly after generic decoding.
var entityFallbacks = strings.NewReplacer(
	"&#39;", "'",
	"&quot;", `"`,
	"&amp;", "&",
)

// NormalizeSegments joins segment texts with a single space and normalizes the result.
func NormalizeSegments(segs []TranscriptSegment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Text
	}
	return NormalizeText(strings.Join(parts, " "))
}

// NormalizeText decodes HTML entities, collapses period runs into one period
// and whitespace runs into one space. Normalized text is a fixed point.
func NormalizeText(s string) string {
	// Each round that changes s shortens it, so the loop ends.
	for {
		decoded := html.UnescapeString(s)
		if decoded == s {
			break
		}
		s = decoded
	}
	s = entityFallbacks.Replace(s)
	s = periodRunRe.ReplaceAllString(s, ".")
	s = whitespaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TruncateAtWord truncates a string to maxLen runes at a word boundary.
func TruncateAtWord(s string, maxLen int) string {
	return strutil.TruncateAtWord(s, maxLen)
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
