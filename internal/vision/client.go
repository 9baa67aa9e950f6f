// Package vision provides the text-and-image completion capability used for
// AI screenshot critique. The concrete provider is chosen from configured
// credentials; without any, the disabled null client is wired in.
package vision

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// ErrNoCredential marks the disabled client; callers treat it as a logged
// no-op, never a finding.
var ErrNoCredential = errors.New("no vision provider credential configured")

// Client submits an image plus a prompt to a vision-capable model and
// returns its free-form text response.
type Client interface {
	Name() string
	Analyze(ctx context.Context, imageBase64, mediaType, prompt string) (string, error)
}

// Disabled is the null client wired when no credential is configured.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Analyze(context.Context, string, string, string) (string, error) {
	return "", ErrNoCredential
}

// FromEnv selects a provider from environment credentials: Anthropic first,
// then OpenAI, then the disabled client.
func FromEnv() Client {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return NewAnthropic(key, os.Getenv("VIZAUDIT_ANTHROPIC_MODEL"))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAI(key, os.Getenv("VIZAUDIT_OPENAI_MODEL"))
	}
	slog.Info("no vision credential configured, AI critique disabled")
	return Disabled{}
}
