package engine

// --- Transcript domain types ---

// CaptionTrack is one language/version of timed captions available for a video.
type CaptionTrack struct {
	LanguageCode  string `json:"language_code"`
	DisplayName   string `json:"display_name,omitempty"`
	SourceURL     string `json:"source_url"`
	AutoGenerated bool   `json:"auto_generated"`
}

// Language is a diagnostics entry describing one available track.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// TranscriptSegment is a unit of caption text with its timing in seconds.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is the resolved track plus its parsed segments for one video.
type Transcript struct {
	VideoID   string
	Track     CaptionTrack
	Languages []Language
	Segments  []TranscriptSegment
}

// --- Tool input/output types ---

type VideoSummaryInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL (watch, youtu.be, embed, v or e links)"`
}

type VideoSummaryOutput struct {
	Transcript []string `json:"transcript"`
	Summary    string   `json:"summary"`
}

type VideoTranscriptInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL (watch, youtu.be, embed, v or e links)"`
}

type VideoTranscriptOutput struct {
	VideoID            string     `json:"video_id"`
	Language           string     `json:"language"`
	IsGenerated        bool       `json:"is_generated"`
	AvailableLanguages []Language `json:"available_languages"`
	SegmentCount       int        `json:"segment_count"`
	Text               string     `json:"text"`
	Paragraphs         []string   `json:"paragraphs"`
}
