package engine

// LLM prompt templates.

// ProofreadSystem frames the first pass over the raw caption text.
const ProofreadSystem = `You are a professional transcript editor. You fix punctuation, casing and obvious speech-recognition mistakes without summarizing, shortening or adding content.`

// ProofreadPrompt reformats the cleaned transcript into readable paragraphs.
// Args: normalized transcript text.
const ProofreadPrompt = `Proofread and reformat the following video transcript.

Rules:
- Keep ALL of the original content and meaning; do not summarize or omit anything
- Fix punctuation, capitalization and sentence boundaries
- Group related sentences into paragraphs of 3-6 sentences
- Separate paragraphs with ONE blank line
- Output plain text only: no headings, no bullet points, no markdown, no commentary

Transcript:
%s`

// SummarySystem frames the second pass that condenses the proofread transcript.
const SummarySystem = `You are a professional editor. Your task is to create a clear, well-structured summary of the video transcript.`

// SummaryPrompt asks for a condensed summary with light markdown structure.
// Args: proofread transcript paragraphs.
const SummaryPrompt = `Please analyze this video transcript and provide a comprehensive summary highlighting the key points, main insights, and important takeaways. Include any significant data or actionable advice mentioned.

Formatting:
- Start sections with a short heading line beginning with "## "
- Use "- " bullet points for lists of points or steps
- Use **bold** sparingly for key terms
- Write everything else as short paragraphs, one per line

Transcript:
%s`
