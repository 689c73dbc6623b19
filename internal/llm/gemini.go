package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash-latest"

// GeminiGenerator implements Generator with the Gemini API, requesting
// a JSON response MIME type so the model emits a parseable object.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	model := g.client.GenerativeModel(g.model)
	model.GenerationConfig.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &ErrUnavailable{Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &ErrUnavailable{Err: fmt.Errorf("empty response from gemini")}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return nil, &ErrUnavailable{Err: fmt.Errorf("gemini response contained no text parts")}
	}

	content := text.String()
	if !json.Valid([]byte(content)) {
		return nil, &ErrBadJSON{Raw: content, Err: fmt.Errorf("completion text failed JSON validation")}
	}
	return json.RawMessage(content), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}
