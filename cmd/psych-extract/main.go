package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
	"github.com/theimaginaryfoundation/psych-extract/journal/provider"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	openAIKey, analyzerKey, err := resolveAPIKeys(cfg, os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	engineCfg := insight.DefaultConfig()
	if cfg.RulesPath != "" {
		engineCfg, err = insight.LoadConfig(cfg.RulesPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
	}
	engine, err := insight.NewEngine(engineCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("mkdir -out: %w", err).Error())
		os.Exit(2)
	}

	imageFiles, err := collectImageFiles(cfg.InPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if len(imageFiles) == 0 {
		fmt.Fprintln(os.Stderr, "no image files found")
		os.Exit(2)
	}
	if cfg.MaxEntries > 0 && len(imageFiles) > cfg.MaxEntries {
		imageFiles = imageFiles[:cfg.MaxEntries]
	}

	indexPath := cfg.IndexPath
	if indexPath == "" {
		indexPath = filepath.Join(cfg.OutDir, "index.jsonl")
	}

	retrier := provider.DefaultRetrier()
	vision := provider.NewOpenAI(provider.OpenAIConfig{
		APIKey:          openAIKey,
		Model:           cfg.Model,
		TranscribeModel: cfg.TranscribeModel,
		SpeechModel:     cfg.SpeechModel,
		Voice:           cfg.Voice,
		Flex:            cfg.Flex,
		Retrier:         retrier,
	})
	analyzer, err := provider.NewAnalyzer(provider.AnalyzerConfig{
		Provider: cfg.Provider,
		APIKey:   analyzerKey,
		Model:    cfg.analyzerModel(),
		Flex:     cfg.Flex,
		Retrier:  retrier,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	pipeline := &journal.Pipeline{
		Transcriber: vision,
		Classifier:  analyzer,
		Themes:      analyzer,
		Engine:      engine,
		Log:         log,
		MaxThemes:   cfg.MaxThemes,
	}
	if cfg.Speech {
		pipeline.Speech = vision
	}

	log.Info().
		Int("images", len(imageFiles)).
		Str("provider", cfg.Provider).
		Str("model", cfg.analyzerModel()).
		Bool("speech", cfg.Speech).
		Msg("starting")

	if cfg.Concurrency == 0 {
		cfg.Concurrency = 1
	}

	var processed, skipped, failed int64
	sem := make(chan struct{}, cfg.Concurrency)
	errCh := make(chan error, len(imageFiles))

	wg := sync.WaitGroup{}
	for _, imgPath := range imageFiles {
		wg.Add(1)
		go func(imgPath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			wrote, err := processImage(ctx, cfg, pipeline, imgPath)
			switch {
			case errors.Is(err, journal.ErrInsightUnavailable):
				log.Error().Err(err).Str("image", imgPath).Msg("entry failed")
				atomic.AddInt64(&failed, 1)
			case err != nil:
				errCh <- err
			case wrote:
				atomic.AddInt64(&processed, 1)
			default:
				atomic.AddInt64(&skipped, 1)
			}
		}(imgPath)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			log.Error().Err(err).Msg("run aborted")
			os.Exit(1)
		}
	}

	rows, err := journal.RebuildIndex(cfg.OutDir, indexPath, journal.IndexOptions{
		InsightMaxChars: cfg.IndexInsightMaxChars,
		ThemesMax:       cfg.IndexThemesMax,
	})
	if err != nil {
		log.Error().Err(err).Msg("rebuild index")
		os.Exit(1)
	}
	log.Info().Int("rows", rows).Str("index", indexPath).Msg("index rebuilt")

	fmt.Fprintf(os.Stdout, "entries_processed=%d entries_skipped=%d entries_failed=%d out=%s index=%s\n", processed, skipped, failed, cfg.OutDir, indexPath)
	if failed > 0 {
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", cfg.InPath, "Path to a journal page image OR directory of images (recursively)")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "Output directory for entry JSON, speech files and index.jsonl")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use (e.g. gpt-5-mini)")
	fs.StringVar(&cfg.TranscribeModel, "transcribe-model", "", "OpenAI vision model override for transcription (default: -model)")
	fs.StringVar(&cfg.Provider, "provider", cfg.Provider, "Backend for emotion scoring and theme extraction: openai, anthropic or cohere")
	fs.StringVar(&cfg.EmotionModel, "emotion-model", "", "Model override for emotion scoring and theme extraction (default: -model for openai, provider default otherwise)")
	fs.StringVar(&cfg.RulesPath, "rules", "", "Optional YAML file overriding cue phrases, templates and seed")
	fs.BoolVar(&cfg.Speech, "speech", false, "Render each insight to audio next to its entry")
	fs.StringVar(&cfg.SpeechModel, "speech-model", cfg.SpeechModel, "OpenAI text-to-speech model")
	fs.StringVar(&cfg.Voice, "voice", cfg.Voice, "Text-to-speech voice")
	fs.StringVar(&cfg.SpeechFormat, "speech-format", cfg.SpeechFormat, "Audio format: mp3, opus, aac, flac, wav or pcm")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Max concurrent entries in flight")
	fs.IntVar(&cfg.MaxEntries, "max-entries", 0, "Process only the first N images (0 = all)")
	fs.IntVar(&cfg.MaxThemes, "max-themes", cfg.MaxThemes, "Max themes kept per entry")
	fs.BoolVar(&cfg.Resume, "resume", cfg.Resume, "Skip images that already have an entry file")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Reprocess and overwrite existing entry files")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print entry JSON files")
	fs.BoolVar(&cfg.Flex, "flex", false, "Use the OpenAI flex service tier")
	fs.StringVar(&cfg.IndexPath, "index", "", "Optional path for index.jsonl (default: <out>/index.jsonl)")
	fs.IntVar(&cfg.IndexInsightMaxChars, "index-insight-max-chars", cfg.IndexInsightMaxChars, "Max chars of insight text kept in index rows (0 disables truncation)")
	fs.IntVar(&cfg.IndexThemesMax, "index-themes-max", cfg.IndexThemesMax, "Max themes stored in index rows (0 disables limiting)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key (overrides OPENAI_API_KEY env var)")
	fs.StringVar(&cfg.AnthropicAPIKey, "anthropic-api-key", "", "Anthropic API key (overrides ANTHROPIC_API_KEY env var)")
	fs.StringVar(&cfg.CohereAPIKey, "cohere-api-key", "", "Cohere API key (overrides CO_API_KEY env var)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "Write JSON logs instead of console output")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Provider = provider.NormalizeProvider(cfg.Provider)
	cfg.SpeechFormat = strings.ToLower(strings.TrimPrefix(cfg.SpeechFormat, "."))
	cfg.InPath = filepath.Clean(cfg.InPath)
	cfg.OutDir = filepath.Clean(cfg.OutDir)
	if cfg.RulesPath != "" {
		cfg.RulesPath = filepath.Clean(cfg.RulesPath)
	}
	if cfg.IndexPath != "" {
		cfg.IndexPath = filepath.Clean(cfg.IndexPath)
	}
	return cfg, nil
}

// resolveAPIKeys returns the OpenAI key used for transcription and speech,
// and the key for the analyzer backend.
func resolveAPIKeys(cfg Config, getenv func(string) string) (string, string, error) {
	openAIKey := cfg.APIKey
	if openAIKey == "" {
		openAIKey = getenv("OPENAI_API_KEY")
	}
	if openAIKey == "" {
		return "", "", errors.New("missing OPENAI_API_KEY (or pass -api-key)")
	}

	env := provider.APIKeyEnv(cfg.Provider)
	var analyzerKey string
	switch env {
	case "ANTHROPIC_API_KEY":
		analyzerKey = cfg.AnthropicAPIKey
	case "CO_API_KEY":
		analyzerKey = cfg.CohereAPIKey
	default:
		return openAIKey, openAIKey, nil
	}
	if analyzerKey == "" {
		analyzerKey = getenv(env)
	}
	if analyzerKey == "" {
		return "", "", fmt.Errorf("missing %s for -provider %s", env, cfg.Provider)
	}
	return openAIKey, analyzerKey, nil
}

func newLogger(w io.Writer, level string, jsonOut bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid -log-level %q: %w", level, err)
	}
	if !jsonOut {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("cmd", "psych-extract").Logger(), nil
}

// processImage runs one image through the pipeline and writes its entry.
// It reports false when the entry already existed and was left alone.
func processImage(ctx context.Context, cfg Config, p *journal.Pipeline, imgPath string) (bool, error) {
	entryOut := fileutils.OutPath(cfg.InPath, cfg.OutDir, imgPath, journal.EntrySuffix)
	if fileutils.FileExists(entryOut) && !cfg.Overwrite {
		if cfg.Resume {
			return false, nil
		}
		return false, fmt.Errorf("entry already exists: %s (use -overwrite or -resume)", entryOut)
	}

	img, err := journal.LoadImage(imgPath)
	if err != nil {
		return false, err
	}

	speechDest := ""
	if cfg.Speech {
		speechDest = fileutils.OutPath(cfg.InPath, cfg.OutDir, imgPath, "."+cfg.SpeechFormat)
	}

	entry, err := p.Process(ctx, img, speechDest)
	if err != nil {
		return false, err
	}
	if err := fileutils.WriteJSONFileAtomic(entryOut, entry, cfg.Pretty); err != nil {
		return false, fmt.Errorf("write %s: %w", entryOut, err)
	}
	p.Log.Info().Str("image", imgPath).Str("entry", entryOut).Strs("categories", categoryStrings(entry.Categories)).Msg("entry written")
	return true, nil
}

func categoryStrings(cats []insight.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func collectImageFiles(inPath string) ([]string, error) {
	fi, err := os.Stat(inPath)
	if err != nil {
		return nil, fmt.Errorf("stat -in: %w", err)
	}
	if !fi.IsDir() {
		if !journal.IsImagePath(inPath) {
			return nil, fmt.Errorf("-in is not an image: %s", inPath)
		}
		return []string{inPath}, nil
	}

	var out []string
	err = filepath.WalkDir(inPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if journal.IsImagePath(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk -in: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
