// Package generator is the optional free-text generation capability. The bot
// never depends on it: every caller has a canned answer to fall back on when
// Generate returns an error.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrUnavailable is returned when no usable reply could be produced.
var ErrUnavailable = errors.New("generator: unavailable")

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by New.
const (
	ProviderNone      = "none"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Config selects and tunes a provider.
type Config struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int64
	Timeout   time.Duration

	// RatePerSecond and Burst bound outgoing calls.
	RatePerSecond float64
	Burst         int
	// MaxAttempts includes the first call.
	MaxAttempts int
}

// DefaultConfig returns a disabled generator config.
func DefaultConfig() Config {
	return Config{
		Provider:      ProviderNone,
		MaxTokens:     150,
		Timeout:       15 * time.Second,
		RatePerSecond: 1,
		Burst:         3,
		MaxAttempts:   2,
	}
}

// New builds the provider named in cfg. It returns (nil, nil) for the none
// provider.
func New(cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("generator: unknown provider %q", cfg.Provider)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROMPT AND REPLY
// ══════════════════════════════════════════════════════════════════════════════

const promptFormat = "You are a helpful study assistant chatbot for students. You give friendly, encouraging advice about studying, academics, and student life. Keep responses concise and practical.\n\nStudent: %s\nAssistant:"

// ReplyPrefix marks generated replies in the transcript.
const ReplyPrefix = "🤖 "

// minReplyLen is the shortest reply worth showing, in characters.
const minReplyLen = 10

// Prompt frames a student message for the model.
func Prompt(input string) string {
	return fmt.Sprintf(promptFormat, input)
}

// Reply asks g about input and returns the prefixed answer. Replies that are
// too short or just repeat the input are reported as ErrUnavailable.
func Reply(ctx context.Context, g Generator, input string) (string, error) {
	if g == nil {
		return "", ErrUnavailable
	}

	out, err := g.Generate(ctx, Prompt(input))
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	if utf8.RuneCountInString(out) <= minReplyLen || strings.EqualFold(out, strings.TrimSpace(input)) {
		return "", fmt.Errorf("%w: reply rejected", ErrUnavailable)
	}
	return ReplyPrefix + out, nil
}
