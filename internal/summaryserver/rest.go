package summaryserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request body limit for POST /api/video-summary.
const maxRequestBody = 64 * 1024

// Client-facing error messages.
const (
	msgInvalidPayload = "Invalid request payload"
	msgInvalidURL     = "Invalid YouTube URL"
	msgNoTranscript   = "No transcript available for this video"
	msgProcessFailed  = "Failed to process video"
)

type summaryRequest struct {
	VideoURL string `json:"videoUrl"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RESTOptions configures the HTTP surface.
type RESTOptions struct {
	AllowedOrigins []string      // empty = any origin
	RequestTimeout time.Duration // 0 = no per-request deadline
}

// RESTHandler serves the video summary REST API.
type RESTHandler struct {
	pipeline *Pipeline
	timeout  time.Duration
}

// NewRESTHandler returns the CORS-wrapped REST API router.
func NewRESTHandler(p *Pipeline, opts RESTOptions) http.Handler {
	h := &RESTHandler{pipeline: p, timeout: opts.RequestTimeout}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/video-summary", h.HandleVideoSummary)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/{$}", h.HandleRoot)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Authorization"},
	}).Handler(mux)
}

// HandleVideoSummary handles POST /api/video-summary.
func (h *RESTHandler) HandleVideoSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Only POST method is allowed"})
		return
	}
	defer r.Body.Close()

	var req summaryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		slog.Info("video-summary: bad payload", slog.Any("error", err))
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidPayload})
		return
	}
	slog.Info("video-summary: request", slog.String("url", engine.TruncateRunes(req.VideoURL, 200, "...")))

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	out, err := h.pipeline.Summarize(ctx, req.VideoURL)
	if r.Context().Err() != nil {
		slog.Warn("video-summary: client gone, not writing response", slog.String("path", r.URL.Path))
		return
	}
	if err != nil {
		status, body := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("video-summary: failed", slog.Any("error", err))
		} else {
			slog.Info("video-summary: rejected", slog.Any("error", err))
		}
		respondJSON(w, status, body)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleRoot answers GET / with a liveness message.
func (h *RESTHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "YouTube Summarizer API is running"})
}

// HandleHealth answers GET /health.
func (h *RESTHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// errorStatus maps pipeline errors to an HTTP status and body.
func errorStatus(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, engine.ErrInvalidVideoURL):
		return http.StatusBadRequest, errorResponse{Error: msgInvalidURL}
	case engine.IsClientError(err):
		return http.StatusBadRequest, errorResponse{Error: msgNoTranscript}
	default:
		return http.StatusInternalServerError, errorResponse{Error: msgProcessFailed, Details: err.Error()}
	}
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("error encoding response", slog.Any("error", err))
	}
}
