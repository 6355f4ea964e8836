package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cohere "github.com/cohere-ai/cohere-go"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
)

// Cohere scores emotions and extracts themes with the Generate API.
type Cohere struct {
	generateText func(cohere.GenerateOptions) (string, error)
	model        string
	maxTokens    uint
	retrier      Retrier
}

// NewCohere builds a Cohere analyzer. The client checks the API key with a
// network call, so construction fails on a bad key.
func NewCohere(cfg AnalyzerConfig) (*Cohere, error) {
	client, err := cohere.CreateClient(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("cohere client: %w", err)
	}
	return &Cohere{
		generateText: func(opts cohere.GenerateOptions) (string, error) {
			res, err := client.Generate(opts)
			if err != nil {
				return "", err
			}
			if res == nil || len(res.Generations) == 0 {
				return "", nil
			}
			return res.Generations[0].Text, nil
		},
		model:     cfg.Model,
		maxTokens: uint(cfg.MaxTokens),
		retrier:   cfg.Retrier,
	}, nil
}

// Classify asks for the eleven scores as JSON. A reply that omits a label or
// adds an unknown one is an error.
func (c *Cohere) Classify(ctx context.Context, text string) (insight.EmotionDistribution, error) {
	reply, err := c.generate(ctx, emotionPrompt+jsonEmotionTail+"\n\n"+entryInput(text))
	if err != nil {
		return nil, fmt.Errorf("cohere classify: %w", err)
	}
	d, err := decodeDistribution(reply)
	if err != nil {
		return nil, fmt.Errorf("cohere classify: %w", err)
	}
	return d, nil
}

// ExtractThemes returns theme phrases, most salient first.
func (c *Cohere) ExtractThemes(ctx context.Context, text string) ([]string, error) {
	reply, err := c.generate(ctx, themesPrompt+jsonThemesTail+"\n\n"+entryInput(text))
	if err != nil {
		return nil, fmt.Errorf("cohere themes: %w", err)
	}
	var out themesResponse
	if err := fileutils.DecodeModelJSON(reply, &out); err != nil {
		return nil, fmt.Errorf("cohere themes: unmarshal: %w", err)
	}
	return out.Themes, nil
}

// generate has no context support in the client; ctx is checked between attempts.
func (c *Cohere) generate(ctx context.Context, prompt string) (string, error) {
	if c.generateText == nil {
		return "", errors.New("cohere client not initialized")
	}
	if c.model == "" {
		return "", errors.New("model is empty")
	}
	var reply string
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		maxTokens := c.maxTokens
		temperature := 0.0
		text, err := c.generateText(cohere.GenerateOptions{
			Model:       c.model,
			Prompt:      prompt,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return err
		}
		reply = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", errors.New("empty response")
	}
	return reply, nil
}
