package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/psych-extract/insight"
	"github.com/theimaginaryfoundation/psych-extract/journal"
	"github.com/theimaginaryfoundation/psych-extract/journal/fileutils"
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

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Str("cmd", "insight-render").Logger()

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

	paths, err := journal.CollectEntryFiles(cfg.InPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no entry files found")
		os.Exit(2)
	}

	rendered, failed := renderAll(engine, paths, cfg, os.Stdout, log)
	if cfg.Write {
		fmt.Fprintf(os.Stdout, "entries_rendered=%d entries_failed=%d in=%s\n", rendered, failed, cfg.InPath)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.InPath, "in", "", "Path to an entry JSON file OR directory of entry files (recursively)")
	fs.StringVar(&cfg.RulesPath, "rules", "", "Optional YAML file overriding cue phrases, templates and seed")
	fs.BoolVar(&cfg.Write, "write", false, "Rewrite entry files with the new insight instead of printing it")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print rewritten entry JSON files")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.InPath != "" {
		cfg.InPath = filepath.Clean(cfg.InPath)
	}
	if cfg.RulesPath != "" {
		cfg.RulesPath = filepath.Clean(cfg.RulesPath)
	}
	return cfg, nil
}

// renderAll regenerates the insight of every entry from its stored text,
// emotions and themes. Without -write each result is printed as id<TAB>insight.
func renderAll(engine *insight.Engine, paths []string, cfg Config, w io.Writer, log zerolog.Logger) (rendered, failed int) {
	for _, p := range paths {
		e, err := journal.ReadEntry(p)
		if err != nil {
			log.Error().Err(err).Str("entry", p).Msg("read entry")
			failed++
			continue
		}
		n, err := engine.Generate(e.Text, e.Emotions, e.Themes)
		if err != nil {
			log.Error().Err(err).Str("entry", p).Msg("render insight")
			failed++
			continue
		}

		if !cfg.Write {
			fmt.Fprintf(w, "%s\t%s\n", e.ID, n.Text)
			rendered++
			continue
		}

		e.Categories = n.Categories
		if e.Categories == nil {
			e.Categories = []insight.Category{}
		}
		e.Insight = n.Text
		if err := fileutils.WriteJSONFileAtomic(p, e, cfg.Pretty); err != nil {
			log.Error().Err(err).Str("entry", p).Msg("write entry")
			failed++
			continue
		}
		log.Debug().Str("entry", p).Msg("entry rewritten")
		rendered++
	}
	return rendered, failed
}
