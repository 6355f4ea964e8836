package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
)

// Anthropic scores emotions and extracts themes with the Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	retrier   Retrier
}

// NewAnthropic builds an Anthropic analyzer from cfg. Model and MaxTokens must be set.
func NewAnthropic(cfg AnalyzerConfig) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		retrier:   cfg.Retrier,
	}
}

// Classify asks for the eleven scores as JSON. A reply that omits a label or
// adds an unknown one is an error.
func (a *Anthropic) Classify(ctx context.Context, text string) (insight.EmotionDistribution, error) {
	reply, err := a.complete(ctx, emotionPrompt+jsonEmotionTail, entryInput(text))
	if err != nil {
		return nil, fmt.Errorf("anthropic classify: %w", err)
	}
	d, err := decodeDistribution(reply)
	if err != nil {
		return nil, fmt.Errorf("anthropic classify: %w", err)
	}
	return d, nil
}

// ExtractThemes returns theme phrases, most salient first.
func (a *Anthropic) ExtractThemes(ctx context.Context, text string) ([]string, error) {
	reply, err := a.complete(ctx, themesPrompt+jsonThemesTail, entryInput(text))
	if err != nil {
		return nil, fmt.Errorf("anthropic themes: %w", err)
	}
	var out themesResponse
	if err := fileutils.DecodeModelJSON(reply, &out); err != nil {
		return nil, fmt.Errorf("anthropic themes: unmarshal: %w", err)
	}
	return out.Themes, nil
}

func (a *Anthropic) complete(ctx context.Context, system, input string) (string, error) {
	if a.model == "" {
		return "", errors.New("model is empty")
	}
	var reply string
	err := a.retrier.Do(ctx, func(ctx context.Context) error {
		msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(a.model),
			MaxTokens:   a.maxTokens,
			Temperature: anthropic.Float(0),
			System:      []anthropic.TextBlockParam{{Text: system}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
			},
		})
		if err != nil {
			return err
		}
		var b strings.Builder
		for _, block := range msg.Content {
			b.WriteString(block.Text)
		}
		reply = b.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("empty response")
	}
	return reply, nil
}
