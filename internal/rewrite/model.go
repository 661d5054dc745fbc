package rewrite

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// ModelService calls the Gemini API directly, one GenerateContent per rewrite.
type ModelService struct {
	client *genai.Client
	model  string
}

func NewModelService(ctx context.Context, apiKey, model string) (*ModelService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NewModelService: api key cannot be empty")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &ModelService{client: client, model: model}, nil
}

func (s *ModelService) Rewrite(ctx context.Context, text string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(userMessage(text)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(Instruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
