package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type Config struct {
	InPath    string
	RulesPath string
	Write     bool
	Pretty    bool
	LogLevel  string
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid -log-level %q", c.LogLevel)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		LogLevel: "warn",
	}
}
