package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

var ErrMissingAPIKey = errors.New("suggest: missing Gemini API key")

// GeminiGenerator implements Generator on the Generative Language API with a
// JSON response constrained to the requested schema.
type GeminiGenerator struct {
	svc   *generativelanguage.Service
	model string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return newGeminiGenerator(ctx, model, option.WithAPIKey(apiKey))
}

func newGeminiGenerator(ctx context.Context, model string, opts ...option.ClientOption) (*GeminiGenerator, error) {
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("suggest: create generative language service: %w", err)
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{svc: svc, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, schema Schema) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   toGeminiSchema(schema),
		},
	}
	resp, err := g.svc.Models.GenerateContent(g.modelPath(), req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("suggest: generate content: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", nil
}

func (g *GeminiGenerator) modelPath() string {
	if strings.HasPrefix(g.model, "models/") {
		return g.model
	}
	return "models/" + g.model
}

func toGeminiSchema(schema Schema) *generativelanguage.Schema {
	props := make(map[string]generativelanguage.Schema, len(schema.Fields))
	required := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		props[f.Name] = generativelanguage.Schema{Type: "STRING", Description: f.Description}
		required = append(required, f.Name)
	}
	return &generativelanguage.Schema{
		Type:       "OBJECT",
		Properties: props,
		Required:   required,
	}
}
