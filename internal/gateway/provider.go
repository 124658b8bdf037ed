package gateway

import (
	"fmt"

	"kitchenops/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel initializes the configured provider for the named model
func NewModel(cfg config.AIConfig, model string) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		opts := []openai.Option{
			openai.WithModel(model),
			openai.WithToken(cfg.APIKey),
		}
		// Any OpenAI-compatible endpoint
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
		}
		return llm, nil

	case "ollama":
		opts := []ollama.Option{ollama.WithModel(model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Ollama model: %w", err)
		}
		return llm, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// FromConfig builds a gateway with text and vision models from cfg
func FromConfig(cfg config.AIConfig, recorder Recorder) (*Gateway, error) {
	policy, err := ParsePolicy(cfg.SlotPolicy)
	if err != nil {
		return nil, err
	}

	text, err := NewModel(cfg, cfg.Model)
	if err != nil {
		return nil, err
	}
	vision := text
	if cfg.VisionModel != "" && cfg.VisionModel != cfg.Model {
		if vision, err = NewModel(cfg, cfg.VisionModel); err != nil {
			return nil, err
		}
	}

	opts := []Option{
		WithVisionModel(vision),
		WithTimeout(cfg.Timeout),
		WithPolicy(policy),
	}
	if recorder != nil {
		opts = append(opts, WithRecorder(recorder))
	}
	return New(text, opts...), nil
}
