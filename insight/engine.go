package insight

import (
	"fmt"
	"strings"
)

// Config is the static rule configuration shared by every invocation.
type Config struct {
	Lexicon   Lexicon
	Templates TemplateTable
	Seed      uint64
}

// DefaultConfig returns the built-in lexicon, templates and seed.
func DefaultConfig() Config {
	return Config{
		Lexicon:   DefaultLexicon(),
		Templates: DefaultTemplates(),
		Seed:      DefaultSeed,
	}
}

// Validate checks the lexicon and template table.
func (c Config) Validate() error {
	sets := map[string][]string{
		"uncertainty":     c.Lexicon.Uncertainty,
		"coping":          c.Lexicon.Coping,
		"somatic":         c.Lexicon.Somatic,
		"self_reflective": c.Lexicon.SelfReflective,
	}
	for name, phrases := range sets {
		for _, p := range phrases {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: empty phrase in %s lexicon", ErrInvalidConfig, name)
			}
		}
	}
	return c.Templates.Validate()
}

// Narrative is the full output of one insight generation.
type Narrative struct {
	Categories []Category
	Report     Report
	Text       string
}

// Engine detects insight categories and renders the narrative for an entry.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules    Rules
	renderer Renderer
}

// NewEngine validates cfg and returns an Engine that owns a copy of it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		rules:    Rules{Lexicon: cfg.Lexicon.clone()},
		renderer: Renderer{Templates: cfg.Templates.clone(), Seed: cfg.Seed},
	}, nil
}

// Generate runs detection, rendering and composition for one entry.
func (e *Engine) Generate(text string, emotions EmotionDistribution, themes []string) (Narrative, error) {
	cats, err := e.rules.Detect(text, emotions)
	if err != nil {
		return Narrative{}, fmt.Errorf("detect insights: %w", err)
	}
	report, err := e.renderer.Render(text, cats, themes)
	if err != nil {
		return Narrative{}, fmt.Errorf("render insights: %w", err)
	}
	return Narrative{
		Categories: cats,
		Report:     report,
		Text:       Compose(emotions, report),
	}, nil
}
