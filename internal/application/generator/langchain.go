package generator

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaModel = "llama3.2"
	replyTemperature   = 0.7
)

// LangChain generates replies through any langchaingo model.
type LangChain struct {
	name      string
	llm       llms.Model
	maxTokens int
}

// NewOpenAI creates an OpenAI-backed generator. An empty APIKey leaves the
// OPENAI_API_KEY lookup to langchaingo.
func NewOpenAI(cfg Config) (*LangChain, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []openai.Option{openai.WithModel(model)}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return &LangChain{name: ProviderOpenAI, llm: llm, maxTokens: int(cfg.MaxTokens)}, nil
}

// NewOllama creates a generator backed by a local Ollama server.
func NewOllama(cfg Config) (*LangChain, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return &LangChain{name: ProviderOllama, llm: llm, maxTokens: int(cfg.MaxTokens)}, nil
}

// Name returns the provider name.
func (l *LangChain) Name() string { return l.name }

// Generate runs a single-prompt completion.
func (l *LangChain) Generate(ctx context.Context, prompt string) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(replyTemperature)}
	if l.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(l.maxTokens))
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, l.llm, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", l.name, err)
	}
	return completion, nil
}
