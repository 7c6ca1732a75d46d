// Package configbuilder constructs the provider registry from loaded
// configuration.
package configbuilder

import (
	"fmt"

	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/casestudy"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/config"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm"
	llmhf "github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm/providers/hf"
	llmollama "github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm/providers/ollama"
	llmopenai "github.com/kvr06-ai/hf-ai-thinking-sim/internal/llm/providers/openai"
	"github.com/kvr06-ai/hf-ai-thinking-sim/internal/simulator"
)

// BuildRegistry constructs providers and model routes from config. The
// catalog backs any provider of type "simulator".
func BuildRegistry(cfg *config.Config, catalog *casestudy.Catalog) (*llm.Registry, error) {
	reg := llm.NewRegistry()

	for name, pCfg := range cfg.Providers {
		p, err := buildProvider(name, pCfg, catalog, cfg.Cases)
		if err != nil {
			return nil, err
		}
		reg.RegisterProvider(name, p)
	}

	for name, mCfg := range cfg.Models {
		reg.RegisterModel(name, llm.ModelRoute{
			Provider:    mCfg.Provider,
			Model:       mCfg.Model,
			Temperature: mCfg.Temperature,
			MaxTokens:   mCfg.MaxTokens,
		}, mCfg.Default)
	}

	if _, _, err := reg.Resolve(""); err != nil {
		return nil, err
	}

	return reg, nil
}

func buildProvider(name string, cfg config.ProviderConfig, catalog *casestudy.Catalog, cases config.CasesConfig) (llm.Provider, error) {
	switch cfg.Type {
	case "hf":
		return llmhf.NewProvider(name, cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil
	case "openai", "openrouter", "vllm", "lmstudio", "custom":
		return llmopenai.NewProvider(name, cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil
	case "ollama":
		return llmollama.NewProvider(name, cfg.BaseURL, cfg.Timeout), nil
	case "simulator":
		return simulator.NewProvider(name, catalog, cases.TypingDelay), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q for provider %s", cfg.Type, name)
	}
}
