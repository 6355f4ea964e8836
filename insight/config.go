package insight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Seed      *uint64               `yaml:"seed"`
	Lexicon   Lexicon               `yaml:"lexicon"`
	Templates map[Category][]string `yaml:"templates"`
}

// LoadConfig reads a YAML rule file and overlays it on DefaultConfig.
// Omitted lexicon lists and template categories keep their defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("LoadConfig: path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: read file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig overlays YAML rule configuration on DefaultConfig.
func ParseConfig(b []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	overlayPhrases(&cfg.Lexicon.Uncertainty, fc.Lexicon.Uncertainty)
	overlayPhrases(&cfg.Lexicon.Coping, fc.Lexicon.Coping)
	overlayPhrases(&cfg.Lexicon.Somatic, fc.Lexicon.Somatic)
	overlayPhrases(&cfg.Lexicon.SelfReflective, fc.Lexicon.SelfReflective)
	for c, tpls := range fc.Templates {
		cfg.Templates[c] = tpls
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayPhrases(dst *[]string, src []string) {
	if len(src) == 0 {
		return
	}
	out := make([]string, 0, len(src))
	for _, p := range src {
		out = append(out, strings.ToLower(strings.TrimSpace(p)))
	}
	*dst = out
}
