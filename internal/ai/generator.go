// Package ai defines the LLM gateway shared by problem analysis and price estimation.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Supported providers.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Generator sends a prompt to a text generation backend and returns its reply.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ParseProvider normalizes a provider name. An empty name selects Claude.
func ParseProvider(name string) (string, error) {
	switch p := strings.ToLower(strings.TrimSpace(name)); p {
	case "":
		return ProviderClaude, nil
	case ProviderClaude, ProviderGemini, ProviderNone:
		return p, nil
	case "anthropic":
		return ProviderClaude, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q (supported: %s, %s, %s)", name, ProviderClaude, ProviderGemini, ProviderNone)
	}
}
