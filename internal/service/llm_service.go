package service

import (
	"context"
	"errors"

	"github.com/lshigami/uteach/config"
	"github.com/rs/zerolog/log"
)

// LLMService issues a single generation call: an instruction plus the input it applies to.
type LLMService interface {
	GenerateText(ctx context.Context, instruction, input string) (string, error)
}

var errLLMNotConfigured = errors.New("language model client not initialized (API key missing)")

// NewLLMService picks the provider named by LLM_PROVIDER. A missing API key yields a
// service whose calls fail, so the process still starts.
func NewLLMService(cfg *config.Config) (LLMService, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return NewOpenAILLMService(cfg), nil
	default:
		return NewGeminiLLMService(cfg)
	}
}

type unconfiguredLLMService struct {
	provider string
}

func (s unconfiguredLLMService) GenerateText(context.Context, string, string) (string, error) {
	log.Warn().Str("provider", s.provider).Msg("LLM call attempted without credentials")
	return "", errLLMNotConfigured
}
