package insight

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(`
seed: 7
lexicon:
  somatic: ["  Jaw ", "STOMACH"]
templates:
  "Emotional Load":
    - "Heavy days around {theme}."
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Seed != 7 {
		t.Fatalf("Seed=%d", cfg.Seed)
	}
	if !reflect.DeepEqual(cfg.Lexicon.Somatic, []string{"jaw", "stomach"}) {
		t.Fatalf("Somatic=%v", cfg.Lexicon.Somatic)
	}
	if !reflect.DeepEqual(cfg.Lexicon.Coping, DefaultLexicon().Coping) {
		t.Fatalf("Coping=%v, want default", cfg.Lexicon.Coping)
	}
	if got := cfg.Templates[EmotionalLoad]; len(got) != 1 || got[0] != "Heavy days around {theme}." {
		t.Fatalf("EmotionalLoad templates=%v", got)
	}
	if !reflect.DeepEqual(cfg.Templates[SelfRelation], DefaultTemplates()[SelfRelation]) {
		t.Fatalf("SelfRelation templates changed")
	}
}

func TestParseConfig_EmptyKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig([]byte(""))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("cfg differs from DefaultConfig")
	}
}

func TestParseConfig_RejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig([]byte(`
templates:
  "Joyfulness": ["about {theme}"]
`))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err=%v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(p, []byte("seed: 99\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Seed != 99 {
		t.Fatalf("Seed=%d", cfg.Seed)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
