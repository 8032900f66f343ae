// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/config"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/logging"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// Provider selects the generative adapter for a request.
type Provider int

const (
	ProviderOpenAI Provider = iota
	ProviderPerplexity
)

// Providers lists every provider in declaration order.
var Providers = []Provider{ProviderOpenAI, ProviderPerplexity}

// String returns the provider's source name.
func (p Provider) String() string {
	return string(p.Source())
}

// Source returns the envelope key for the provider.
func (p Provider) Source() Name {
	switch p {
	case ProviderPerplexity:
		return Perplexity
	default:
		return OpenAI
	}
}

// Title is the display name used in the synthetic result title.
func (p Provider) Title() string {
	switch p {
	case ProviderPerplexity:
		return "Perplexity"
	default:
		return "OpenAI"
	}
}

// ParseProvider matches s case-insensitively against the provider names.
func ParseProvider(s string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(OpenAI):
		return ProviderOpenAI, true
	case string(Perplexity):
		return ProviderPerplexity, true
	default:
		return ProviderOpenAI, false
	}
}

// ResolveProvider returns the provider named by s, or fallback. An unknown
// non-empty selector is logged and is not an error.
func ResolveProvider(ctx context.Context, s string, fallback Provider) Provider {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	p, ok := ParseProvider(s)
	if !ok {
		logging.Ctx(ctx).Warn().
			Str("provider", s).
			Str("fallback", fallback.String()).
			Msg("Unknown generative provider, using default")
		return fallback
	}
	return p
}

// GenerativeAdapter asks a chat-completions model about the query and wraps
// the answer in a single item.
type GenerativeAdapter struct {
	provider     Provider
	cfg          config.ProviderConfig
	systemPrompt string
	endpoint     *upstream.Endpoint
	client       *openai.Client
}

// NewGenerative creates the adapter for provider. Both providers speak the
// OpenAI wire format; they differ only in base URL, key and model.
func NewGenerative(provider Provider, cfg config.ProviderConfig, systemPrompt string, endpoint *upstream.Endpoint) *GenerativeAdapter {
	c := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(endpoint.Client()),
		option.WithMaxRetries(0),
	)
	return &GenerativeAdapter{
		provider:     provider,
		cfg:          cfg,
		systemPrompt: systemPrompt,
		endpoint:     endpoint,
		client:       &c,
	}
}

func (a *GenerativeAdapter) Name() Name { return a.provider.Source() }

func (a *GenerativeAdapter) Provider() Provider { return a.provider }

func (a *GenerativeAdapter) Timeout() time.Duration { return a.cfg.Timeout }

func (a *GenerativeAdapter) BreakerState() string { return a.endpoint.BreakerState() }

// Search sends the system prompt and the query as a chat completion.
func (a *GenerativeAdapter) Search(ctx context.Context, query string) ([]Item, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", a.Name(), upstream.ErrMissingAPIKey)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.systemPrompt),
			openai.UserMessage(query),
		},
	}
	if a.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(a.cfg.MaxTokens))
	}

	var resp *openai.ChatCompletion
	err := a.endpoint.Call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = a.client.Chat.Completions.New(ctx, params)
		return translateOpenAIError(err)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}

	choices := make([]string, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choices = append(choices, c.Message.Content)
	}
	return completionItems(a.provider, a.cfg.Model, choices), nil
}

// completionItems wraps the first choice in the synthetic result item. No
// choices means no hits.
func completionItems(p Provider, model string, choices []string) []Item {
	if len(choices) == 0 {
		return []Item{}
	}
	return []Item{{
		"title":       p.Title() + " Response",
		"description": choices[0],
		"provider":    p.String(),
		"model":       model,
	}}
}

// translateOpenAIError maps SDK API errors onto upstream.StatusError so the
// breaker and the envelope reason treat them like any other upstream.
func translateOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &upstream.StatusError{
			StatusCode: apiErr.StatusCode,
			Body:       http.StatusText(apiErr.StatusCode),
		}
	}
	return err
}
