package sources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
)

// videoIDRE covers watch?v=, youtu.be/, embed/, v/, e/, shorts/, live/ and /<seg>/<seg>/<id> URL shapes.
var videoIDRE = regexp.MustCompile(`(?:youtube(?:-nocookie)?\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?|shorts|live)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-char video ID from any supported YouTube URL format.
func ExtractVideoID(rawURL string) (string, error) {
	m := videoIDRE.FindStringSubmatch(strings.TrimSpace(rawURL))
	if len(m) < 2 {
		return "", fmt.Errorf("%w: %q", engine.ErrInvalidVideoURL, engine.TruncateRunes(rawURL, 120, "..."))
	}
	return m[1], nil
}
