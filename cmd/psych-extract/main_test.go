package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("psych-extract", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-in", "pages",
		"-out", "insights/",
		"-provider", "Anthropic",
		"-rules", "rules.yaml",
		"-speech",
		"-speech-format", ".WAV",
		"-concurrency", "4",
		"-max-entries", "7",
		"-max-themes", "3",
		"-pretty",
		"-overwrite",
		"-api-key", "k",
		"-log-level", "debug",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InPath != "pages" || cfg.OutDir != "insights" {
		t.Fatalf("InPath=%q OutDir=%q", cfg.InPath, cfg.OutDir)
	}
	if cfg.Provider != "anthropic" {
		t.Fatalf("Provider=%q", cfg.Provider)
	}
	if cfg.SpeechFormat != "wav" || !cfg.Speech {
		t.Fatalf("Speech=%v SpeechFormat=%q", cfg.Speech, cfg.SpeechFormat)
	}
	if cfg.Concurrency != 4 || cfg.MaxEntries != 7 || cfg.MaxThemes != 3 {
		t.Fatalf("concurrency=%d max-entries=%d max-themes=%d", cfg.Concurrency, cfg.MaxEntries, cfg.MaxThemes)
	}
	if !cfg.Pretty || !cfg.Overwrite || !cfg.Resume {
		t.Fatalf("Pretty=%v Overwrite=%v Resume=%v", cfg.Pretty, cfg.Overwrite, cfg.Resume)
	}
	if cfg.analyzerModel() != "claude-3-5-haiku-latest" {
		t.Fatalf("analyzerModel=%q", cfg.analyzerModel())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseFlags_ProviderAliases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		provider, wantProvider, wantModel string
	}{
		{"", "openai", "gpt-5-custom"},
		{"OpenAI", "openai", "gpt-5-custom"},
		{"claude", "anthropic", "claude-3-5-haiku-latest"},
		{"cohere", "cohere", "command"},
	}
	for _, tc := range cases {
		fs := flag.NewFlagSet("psych-extract", flag.ContinueOnError)
		cfg, err := parseFlags(fs, []string{"-provider", tc.provider, "-model", "gpt-5-custom"})
		if err != nil {
			t.Fatalf("parseFlags(%q): %v", tc.provider, err)
		}
		if cfg.Provider != tc.wantProvider {
			t.Fatalf("provider %q: Provider=%q, want %q", tc.provider, cfg.Provider, tc.wantProvider)
		}
		if got := cfg.analyzerModel(); got != tc.wantModel {
			t.Fatalf("provider %q: analyzerModel=%q, want %q", tc.provider, got, tc.wantModel)
		}
	}

	cfg := defaultConfig()
	cfg.Provider = ""
	if got := cfg.analyzerModel(); got != cfg.Model {
		t.Fatalf("empty provider: analyzerModel=%q, want %q", got, cfg.Model)
	}
}

func TestConfigValidate_Rejects(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"provider":      func(c *Config) { c.Provider = "gemini" },
		"speech-format": func(c *Config) { c.Speech = true; c.SpeechFormat = "ogg" },
		"max-themes":    func(c *Config) { c.MaxThemes = -1 },
		"log-level":     func(c *Config) { c.LogLevel = "loud" },
		"missing-in":    func(c *Config) { c.InPath = "" },
	}
	for name, mutate := range cases {
		cfg := defaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestResolveAPIKeys(t *testing.T) {
	t.Parallel()

	env := map[string]string{"OPENAI_API_KEY": "oa", "CO_API_KEY": "co"}
	getenv := func(k string) string { return env[k] }

	cfg := defaultConfig()
	oa, an, err := resolveAPIKeys(cfg, getenv)
	if err != nil || oa != "oa" || an != "oa" {
		t.Fatalf("openai: oa=%q an=%q err=%v", oa, an, err)
	}

	cfg.Provider = "cohere"
	if _, an, err = resolveAPIKeys(cfg, getenv); err != nil || an != "co" {
		t.Fatalf("cohere: an=%q err=%v", an, err)
	}

	cfg.Provider = "anthropic"
	if _, _, err = resolveAPIKeys(cfg, getenv); err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("anthropic: err=%v", err)
	}
	cfg.AnthropicAPIKey = "an"
	if _, an, err = resolveAPIKeys(cfg, getenv); err != nil || an != "an" {
		t.Fatalf("anthropic flag: an=%q err=%v", an, err)
	}

	if _, _, err := resolveAPIKeys(defaultConfig(), func(string) string { return "" }); err == nil {
		t.Fatalf("expected missing OPENAI_API_KEY")
	}
}

func TestNewLogger_JSONAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn", true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("out=%q", out)
	}
	if _, err := newLogger(&buf, "loud", false); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestCollectImageFiles_DirRecursiveAndSkipsOtherFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, p := range []string{"week1/a.png", "week1/b.JPG", "week1/notes.txt", ".cache/c.png", "d.insight.json"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	files, err := collectImageFiles(root)
	if err != nil {
		t.Fatalf("collectImageFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files=%v, want 2", files)
	}
	if filepath.Base(files[0]) != "a.png" || filepath.Base(files[1]) != "b.JPG" {
		t.Fatalf("files=%v", files)
	}
}

type stubTranscriber struct{ text string }

func (s stubTranscriber) Transcribe(ctx context.Context, img journal.Image) (string, error) {
	return s.text, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Classify(ctx context.Context, text string) (insight.EmotionDistribution, error) {
	d := insight.ZeroDistribution()
	d[insight.Joy] = 0.8
	return d, nil
}

func (stubAnalyzer) ExtractThemes(ctx context.Context, text string) ([]string, error) {
	return []string{"walk"}, nil
}

func TestProcessImage_WritesEntryAndResumes(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	out := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\n0000")
	imgPath := filepath.Join(in, "day1.png")
	if err := os.WriteFile(imgPath, png, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	engine, err := insight.NewEngine(insight.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	p := &journal.Pipeline{
		Transcriber: stubTranscriber{text: "I went for a walk and felt happy."},
		Classifier:  stubAnalyzer{},
		Themes:      stubAnalyzer{},
		Engine:      engine,
		Log:         zerolog.Nop(),
		NewID:       func() string { return "id-1" },
	}
	cfg := defaultConfig()
	cfg.InPath = in
	cfg.OutDir = out

	wrote, err := processImage(context.Background(), cfg, p, imgPath)
	if err != nil || !wrote {
		t.Fatalf("processImage: wrote=%v err=%v", wrote, err)
	}
	e, err := journal.ReadEntry(filepath.Join(out, "day1"+journal.EntrySuffix))
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if e.ID != "id-1" || !strings.HasPrefix(e.Insight, "Emotions of joy are detected.") {
		t.Fatalf("entry=%+v", e)
	}

	wrote, err = processImage(context.Background(), cfg, p, imgPath)
	if err != nil || wrote {
		t.Fatalf("resume: wrote=%v err=%v", wrote, err)
	}

	cfg.Resume = false
	if _, err := processImage(context.Background(), cfg, p, imgPath); err == nil {
		t.Fatalf("expected already-exists error")
	}
}
