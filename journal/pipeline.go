package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/psych-extract/insight"
)

// DefaultMaxThemes matches the extractor's top-10 keyword cut.
const DefaultMaxThemes = 10

// Transcriber turns a page image into text.
type Transcriber interface {
	Transcribe(ctx context.Context, img Image) (string, error)
}

// EmotionClassifier scores text against every emotion label.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (insight.EmotionDistribution, error)
}

// ThemeExtractor returns the salient theme phrases of text, most salient first.
type ThemeExtractor interface {
	ExtractThemes(ctx context.Context, text string) ([]string, error)
}

// SpeechRenderer renders text to an audio file at dest.
type SpeechRenderer interface {
	Speak(ctx context.Context, text, dest string) error
}

// Pipeline runs one journal page through transcription, scoring, theme
// extraction and insight generation. Speech is optional.
type Pipeline struct {
	Transcriber Transcriber
	Classifier  EmotionClassifier
	Themes      ThemeExtractor
	Speech      SpeechRenderer
	Engine      *insight.Engine
	Log         zerolog.Logger

	MaxThemes int
	Now       func() time.Time
	NewID     func() string
}

// Process transcribes img and generates its entry. speechDest may be empty.
// A failed transcription is logged and treated as an empty entry.
func (p *Pipeline) Process(ctx context.Context, img Image, speechDest string) (Entry, error) {
	if p.Transcriber == nil {
		return Entry{}, errors.New("pipeline: transcriber is nil")
	}
	text, err := p.Transcriber.Transcribe(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return Entry{}, ctx.Err()
		}
		p.Log.Warn().Err(err).Str("source", img.Path).Msg("transcription failed; continuing with empty text")
		text = ""
	}
	return p.ProcessText(ctx, img.Path, text, speechDest)
}

// ProcessText generates the entry for already transcribed text.
func (p *Pipeline) ProcessText(ctx context.Context, source, text, speechDest string) (Entry, error) {
	if p.Engine == nil {
		return Entry{}, errors.New("pipeline: engine is nil")
	}
	text = strings.TrimSpace(text)

	emotions := insight.ZeroDistribution()
	var themes []string
	if text != "" {
		var err error
		emotions, err = p.classify(ctx, text)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %s: %w", ErrInsightUnavailable, source, err)
		}
		themes, err = p.extractThemes(ctx, text)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %s: %w", ErrInsightUnavailable, source, err)
		}
	} else {
		p.Log.Info().Str("source", source).Msg("empty text; skipping classifier and theme extraction")
	}

	n, err := p.Engine.Generate(text, emotions, themes)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %w", ErrInsightUnavailable, source, err)
	}

	entry := Entry{
		ID:          p.newID(),
		Source:      source,
		ProcessedAt: p.now().UTC().Format(time.RFC3339),
		Text:        text,
		Emotions:    emotions,
		Themes:      themes,
		Categories:  n.Categories,
		Insight:     n.Text,
	}
	if entry.Themes == nil {
		entry.Themes = []string{}
	}
	if entry.Categories == nil {
		entry.Categories = []insight.Category{}
	}
	p.Log.Debug().
		Str("source", source).
		Int("themes", len(themes)).
		Int("categories", len(n.Categories)).
		Msg("insight generated")

	if p.Speech != nil && speechDest != "" {
		if err := p.Speech.Speak(ctx, n.Text, speechDest); err != nil {
			p.Log.Warn().Err(err).Str("source", source).Str("dest", speechDest).Msg("speech rendering failed")
		} else {
			entry.SpeechPath = speechDest
		}
	}
	return entry, nil
}

func (p *Pipeline) classify(ctx context.Context, text string) (insight.EmotionDistribution, error) {
	if p.Classifier == nil {
		return nil, errors.New("pipeline: classifier is nil")
	}
	d, err := p.Classifier.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("classify emotions: %w", err)
	}
	if err := ValidateDistribution(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *Pipeline) extractThemes(ctx context.Context, text string) ([]string, error) {
	if p.Themes == nil {
		return nil, errors.New("pipeline: theme extractor is nil")
	}
	themes, err := p.Themes.ExtractThemes(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract themes: %w", err)
	}
	themes = NormalizeThemes(themes)
	max := p.MaxThemes
	if max <= 0 {
		max = DefaultMaxThemes
	}
	if len(themes) > max {
		themes = themes[:max]
	}
	return themes, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}
