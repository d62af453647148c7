package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/uteach/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type geminiLLMService struct {
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiLLMService(cfg *config.Config) (LLMService, error) {
	if cfg.LLM.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation and feedback will fail.")
		return unconfiguredLLMService{provider: config.ProviderGemini}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.LLM.GeminiApiKey))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Gemini client")
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{
		model:     client.GenerativeModel(cfg.LLM.GeminiModel),
		modelName: cfg.LLM.GeminiModel,
	}, nil
}

func (s *geminiLLMService) GenerateText(ctx context.Context, instruction, input string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(instruction), genai.Text(input))
	if err != nil {
		log.Error().Err(err).Str("model", s.modelName).Msg("Gemini API error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Warn().Str("model", s.modelName).Msg("Gemini returned no candidates")
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
