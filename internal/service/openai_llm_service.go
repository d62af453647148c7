package service

import (
	"context"
	"fmt"

	"github.com/lshigami/uteach/config"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// openAILLMService talks to any OpenAI-compatible chat completion endpoint.
type openAILLMService struct {
	api   *openai.Client
	model string
}

func NewOpenAILLMService(cfg *config.Config) LLMService {
	if cfg.LLM.OpenAIApiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set. Question generation and feedback will fail.")
		return unconfiguredLLMService{provider: config.ProviderOpenAI}
	}
	clientCfg := openai.DefaultConfig(cfg.LLM.OpenAIApiKey)
	if cfg.LLM.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.LLM.OpenAIBaseURL
	}
	return &openAILLMService{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.LLM.OpenAIModel,
	}
}

func (s *openAILLMService) GenerateText(ctx context.Context, instruction, input string) (string, error) {
	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("model", s.model).Msg("OpenAI API error")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
