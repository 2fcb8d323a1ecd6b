package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package sources contains per-publisher parsing strategies and the
// YAML/JSON registry describing their sessions and channels.

const (
	defaultMaxNews               = 20
	defaultRequestTimeoutSeconds = 10
	defaultLookbackHours         = 24
	defaultUserAgent             = "Mozilla/5.0 (X11; Linux x86_64) news-parser/1.0"
)

// ChannelConfig describes one RSS feed endpoint of a source.
type ChannelConfig struct {
	Name     string `json:"name" yaml:"name"`
	URL      string `json:"url" yaml:"url"`
	Category string `json:"category" yaml:"category"`
	MaxNews  int    `json:"max_news" yaml:"max_news"`
}

// SourceConfig describes one publisher session: its timezone, request
// budget, freshness window, and ordered channel list.
type SourceConfig struct {
	Name                  string          `json:"name" yaml:"name"`
	RawPrefix             string          `json:"raw_prefix" yaml:"raw_prefix"`
	Timezone              string          `json:"timezone" yaml:"timezone"`
	UserAgent             string          `json:"user_agent" yaml:"user_agent"`
	RequestTimeoutSeconds int             `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	LookbackHours         int             `json:"lookback_hours" yaml:"lookback_hours"`
	RateLimitPerSecond    int             `json:"rate_limit_per_second" yaml:"rate_limit_per_second"`
	FailOnEmpty           bool            `json:"fail_on_empty" yaml:"fail_on_empty"`
	Channels              []ChannelConfig `json:"channels" yaml:"channels"`
}

// configDefaults fills source fields left empty in individual entries.
type configDefaults struct {
	UserAgent             string `json:"user_agent" yaml:"user_agent"`
	MaxNews               int    `json:"max_news" yaml:"max_news"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	LookbackHours         int    `json:"lookback_hours" yaml:"lookback_hours"`
	RateLimitPerSecond    int    `json:"rate_limit_per_second" yaml:"rate_limit_per_second"`
}

type configFile struct {
	Defaults configDefaults `json:"defaults" yaml:"defaults"`
	Sources  []SourceConfig `json:"sources" yaml:"sources"`
}

// RequestTimeout returns the per-request timeout for the source.
func (c SourceConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return defaultRequestTimeoutSeconds * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Lookback returns the freshness window for full-text resolution.
func (c SourceConfig) Lookback() time.Duration {
	if c.LookbackHours <= 0 {
		return defaultLookbackHours * time.Hour
	}
	return time.Duration(c.LookbackHours) * time.Hour
}

// Location resolves the source's configured timezone.
func (c SourceConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q for source %q: %w", c.Timezone, c.Name, err)
	}
	return loc, nil
}

// LoadConfigs loads the source registry from a YAML/JSON file, applying
// file-level defaults to each entry. Channel order in the file is the
// processing order.
func LoadConfigs(path string) ([]SourceConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	reg, err := parseConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(reg.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	seen := make(map[string]struct{}, len(reg.Sources))
	for i := range reg.Sources {
		cfg := sanitizeSource(reg.Sources[i], reg.Defaults)
		if err := validateSource(cfg); err != nil {
			return nil, fmt.Errorf("source[%d]: %w", i, err)
		}
		if _, exists := seen[cfg.Name]; exists {
			return nil, fmt.Errorf("duplicate source name %q", cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
		reg.Sources[i] = cfg
	}

	return reg.Sources, nil
}

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

func sanitizeSource(cfg SourceConfig, def configDefaults) SourceConfig {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.RawPrefix = strings.TrimSpace(cfg.RawPrefix)
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.UserAgent = strings.TrimSpace(cfg.UserAgent)

	if cfg.UserAgent == "" {
		cfg.UserAgent = strings.TrimSpace(def.UserAgent)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if cfg.LookbackHours <= 0 {
		cfg.LookbackHours = def.LookbackHours
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = def.RateLimitPerSecond
	}

	maxNews := def.MaxNews
	if maxNews <= 0 {
		maxNews = defaultMaxNews
	}
	for i := range cfg.Channels {
		ch := cfg.Channels[i]
		ch.Name = strings.TrimSpace(ch.Name)
		ch.URL = strings.TrimSpace(ch.URL)
		ch.Category = strings.TrimSpace(ch.Category)
		if ch.MaxNews <= 0 {
			ch.MaxNews = maxNews
		}
		cfg.Channels[i] = ch
	}

	return cfg
}

func validateSource(cfg SourceConfig) error {
	if cfg.Name == "" {
		return errors.New("name is required")
	}
	if cfg.RawPrefix == "" {
		return fmt.Errorf("raw_prefix is required for source %q", cfg.Name)
	}
	if cfg.Timezone == "" {
		return fmt.Errorf("timezone is required for source %q", cfg.Name)
	}
	if len(cfg.Channels) == 0 {
		return fmt.Errorf("at least one channel is required for source %q", cfg.Name)
	}
	for i, ch := range cfg.Channels {
		if ch.Name == "" {
			return fmt.Errorf("channel[%d] of source %q: name is required", i, cfg.Name)
		}
		if ch.URL == "" {
			return fmt.Errorf("channel %q of source %q: url is required", ch.Name, cfg.Name)
		}
		if ch.Category == "" {
			return fmt.Errorf("channel %q of source %q: category is required", ch.Name, cfg.Name)
		}
	}
	return nil
}
