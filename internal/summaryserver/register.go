package summaryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_ytsum/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the video tools on the given MCP server:
// video_summary, video_transcript.
func RegisterTools(server *mcp.Server, p *Pipeline) {
	registerVideoSummary(server, p)
	registerVideoTranscript(server, p)
}

func registerVideoSummary(server *mcp.Server, p *Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_summary",
		Description: "Fetch a YouTube video's captions (English preferred, otherwise the first available track), proofread them into paragraphs and produce an HTML-formatted summary with headings and bullet points.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.VideoSummaryInput) (*mcp.CallToolResult, engine.VideoSummaryOutput, error) {
		if input.VideoURL == "" {
			return nil, engine.VideoSummaryOutput{}, errors.New("video_url is required")
		}
		out, err := p.Summarize(ctx, input.VideoURL)
		if err != nil {
			return nil, engine.VideoSummaryOutput{}, err
		}
		return nil, *out, nil
	})
}

func registerVideoTranscript(server *mcp.Server, p *Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_transcript",
		Description: "Fetch and clean a YouTube video's caption transcript without AI processing. Returns the normalized text, paragraphs, the selected language, whether it is auto-generated, and all available caption languages.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input engine.VideoTranscriptInput) (*mcp.CallToolResult, engine.VideoTranscriptOutput, error) {
		if input.VideoURL == "" {
			return nil, engine.VideoTranscriptOutput{}, errors.New("video_url is required")
		}
		out, err := p.Transcript(ctx, input.VideoURL)
		if err != nil {
			return nil, engine.VideoTranscriptOutput{}, err
		}
		return nil, *out, nil
	})
}
