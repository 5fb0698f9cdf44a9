// Command go_ytsum serves YouTube transcript summaries over REST and MCP.
//
// Serves POST /api/video-summary over plain HTTP and exposes the same pipeline
// as the MCP tools video_summary and video_transcript.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_ytsum/internal/engine"
	"github.com/anatolykoptev/go_ytsum/internal/engine/sources"
	"github.com/anatolykoptev/go_ytsum/internal/summaryserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var version = "dev"

func main() {
	// A missing .env is fine: variables may come from the environment directly.
	envErr := godotenv.Load()

	c := loadConfig()
	setupLogging(c)
	if envErr != nil {
		slog.Debug("no .env file loaded", slog.Any("error", envErr))
	}
	if err := c.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	yt := sources.NewYouTube(c.HTTPClient,
		sources.WithFetchTimeout(c.FetchTimeout),
		sources.WithRateLimit(c.YouTubeRateLimit),
	)
	pipeline := summaryserver.NewPipeline(yt, engine.NewLLM(c), c.MaxTranscriptChars)

	var origins []string
	if c.IsProduction() {
		origins = c.CORSOrigins
	}
	rest := &http.Server{
		Addr: ":" + c.Port,
		Handler: summaryserver.NewRESTHandler(pipeline, summaryserver.RESTOptions{
			AllowedOrigins: origins,
			RequestTimeout: c.RequestTimeout,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: c.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		slog.Info("starting REST API",
			slog.String("port", c.Port),
			slog.String("mode", c.Mode),
		)
		if err := rest.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("REST server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytsum",
		Version: version,
	}, nil)
	summaryserver.RegisterTools(server, pipeline)
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytsum",
		Version:      version,
		Port:         c.MCPPort,
		WriteTimeout: c.RequestTimeout + 30*time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := rest.Shutdown(ctx); err != nil {
		slog.Error("REST server forced to shutdown", slog.Any("error", err))
	}
	slog.Info("server exited")
}

func loadConfig() engine.Config {
	return engine.Config{
		Mode:               env.Str("APP_ENV", engine.ModeDevelopment),
		Port:               env.Str("PORT", "3000"),
		MCPPort:            env.Str("MCP_PORT", "8893"),
		CORSOrigins:        env.List("CORS_ORIGINS", ""),
		LLMAPIKey:          env.Str("LLM_API_KEY", env.Str("OPENAI_API_KEY", "")),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:         env.Str("LLM_API_BASE", "https://api.openai.com/v1"),
		LLMModel:           env.Str("LLM_MODEL", "gpt-4-turbo-preview"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 4096),
		FetchTimeout:       env.Duration("FETCH_TIMEOUT", 15*time.Second),
		RequestTimeout:     env.Duration("REQUEST_TIMEOUT", 3*time.Minute),
		YouTubeRateLimit:   env.Float("YOUTUBE_RATE_LIMIT", 5),
		MaxTranscriptChars: env.Int("MAX_TRANSCRIPT_CHARS", 60000),
		HTTPClient:         engine.NewHTTPClient(30 * time.Second),
	}
}

func setupLogging(c engine.Config) {
	if c.IsProduction() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
