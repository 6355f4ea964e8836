package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/psych-extract/journal/provider"
)

type Config struct {
	InPath          string
	OutDir          string
	Model           string
	TranscribeModel string
	Provider        string
	EmotionModel    string
	RulesPath       string
	Pretty          bool
	Overwrite       bool
	Resume          bool
	Flex            bool
	IndexPath       string
	MaxEntries      int
	MaxThemes       int
	Concurrency     int

	Speech       bool
	SpeechModel  string
	Voice        string
	SpeechFormat string

	APIKey          string
	AnthropicAPIKey string
	CohereAPIKey    string

	LogLevel string
	LogJSON  bool

	IndexInsightMaxChars int
	IndexThemesMax       int
}

var speechFormats = map[string]struct{}{
	"mp3": {}, "opus": {}, "aac": {}, "flac": {}, "wav": {}, "pcm": {},
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	if c.OutDir == "" {
		return errors.New("missing -out")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if !provider.ValidProvider(c.Provider) {
		return fmt.Errorf("unsupported -provider %q (want openai, anthropic or cohere)", c.Provider)
	}
	if c.Speech {
		if c.SpeechModel == "" {
			return errors.New("missing -speech-model")
		}
		if c.Voice == "" {
			return errors.New("missing -voice")
		}
		if _, ok := speechFormats[c.SpeechFormat]; !ok {
			return fmt.Errorf("unsupported -speech-format %q", c.SpeechFormat)
		}
	}
	if c.MaxEntries < 0 {
		return errors.New("max-entries must be >= 0")
	}
	if c.MaxThemes < 0 {
		return errors.New("max-themes must be >= 0")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must be >= 0")
	}
	if c.IndexInsightMaxChars < 0 || c.IndexThemesMax < 0 {
		return errors.New("index limits must be >= 0")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid -log-level %q", c.LogLevel)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InPath:               filepath.FromSlash("journal/pages"),
		OutDir:               filepath.FromSlash("journal/insights"),
		Model:                "gpt-5-mini",
		Provider:             "openai",
		SpeechModel:          "gpt-4o-mini-tts",
		Voice:                "alloy",
		SpeechFormat:         "mp3",
		Resume:               true,
		Concurrency:          1,
		MaxThemes:            10,
		LogLevel:             "info",
		IndexInsightMaxChars: 600,
		IndexThemesMax:       5,
	}
}

// analyzerModel is the model used for emotion scoring and theme extraction.
func (c Config) analyzerModel() string {
	if c.EmotionModel != "" {
		return c.EmotionModel
	}
	if provider.NormalizeProvider(c.Provider) == "openai" {
		return c.Model
	}
	return provider.DefaultModel(c.Provider)
}
