package llm

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"PolicyPal/internal/config"
	"PolicyPal/internal/ports"
)

// VertexClient summarizes through Gemini on Vertex AI.
type VertexClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ ports.Summarizer = (*VertexClient)(nil)

// NewVertexClient dials Vertex AI with application default credentials.
func NewVertexClient(ctx context.Context, cfg config.VertexConfig, instructions string) (*VertexClient, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("vertex project id is required")
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(safePrompt(instructions))},
	}
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: genai.Ptr[int32](512),
		Temperature:     genai.Ptr[float32](0.2),
	}

	return &VertexClient{client: client, model: model}, nil
}

// Name identifies the backend inside the registry.
func (v *VertexClient) Name() string {
	return "vertex"
}

// Summarize sends the bill text as the single user part.
func (v *VertexClient) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	summary := extractText(resp)
	if summary == "" {
		return "", fmt.Errorf("vertex returned no text")
	}
	return summary, nil
}

// Close releases the underlying connection.
func (v *VertexClient) Close() error {
	return v.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
