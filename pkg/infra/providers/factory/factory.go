package factory

import (
	"fmt"

	"github.com/agentaudit/auditgate/pkg/infra/providers"
	"github.com/agentaudit/auditgate/pkg/infra/providers/anthropic"
	"github.com/agentaudit/auditgate/pkg/infra/providers/gemini"
	"github.com/agentaudit/auditgate/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type ProviderFactory struct{}

func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

func (f *ProviderFactory) Build(name string) (providers.Client, error) {
	switch name {
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	case ProviderGemini:
		return gemini.NewGeminiClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}
