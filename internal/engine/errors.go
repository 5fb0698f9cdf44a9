package engine

import "errors"

// Request failures. Wrap with %w and test with errors.Is.
var (
	ErrInvalidVideoURL       = errors.New("invalid YouTube URL")
	ErrNoCaptionsData        = errors.New("no captions data found")
	ErrNoCaptionTracks       = errors.New("no caption tracks available")
	ErrTranscriptFetch       = errors.New("transcript fetch failed")
	ErrTranscriptUnavailable = errors.New("transcript is empty")
	ErrProcessing            = errors.New("downstream processing failed")
)

// IsClientError reports whether err was caused by the request itself
// (bad URL or a video without usable captions) rather than a downstream failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidVideoURL) ||
		errors.Is(err, ErrNoCaptionsData) ||
		errors.Is(err, ErrNoCaptionTracks) ||
		errors.Is(err, ErrTranscriptUnavailable)
}
