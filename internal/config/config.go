// Package config loads the perft tool settings and position suites from YAML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chesscore/internal/board"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed default.yaml
var defaultYAML []byte

// Config is the perft tool configuration.
type Config struct {
	// Workers is the number of root moves counted in parallel; 0 means
	// GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Promotions is "all", "queen" or "queen-knight".
	Promotions string  `yaml:"promotions"`
	Cache      Cache   `yaml:"cache"`
	Suites     []Suite `yaml:"suites"`
}

// Cache controls result caching.
type Cache struct {
	// Enabled turns on the persistent result store.
	Enabled bool `yaml:"enabled"`
	// Dir overrides the store location.
	Dir string `yaml:"dir"`
	// TableSize is the in-memory subtree cache size in entries; 0 disables it.
	TableSize int `yaml:"table_size"`
}

// Suite is a named list of positions.
type Suite struct {
	Name      string     `yaml:"name"`
	Positions []Position `yaml:"positions"`
}

// Position is a position with its known node counts.
type Position struct {
	Name string `yaml:"name"`
	FEN  string `yaml:"fen"`
	// Expected holds the node count for depth i+1 at index i.
	Expected []uint64 `yaml:"expected"`
}

// MaxDepth returns the deepest depth with a known count.
func (p Position) MaxDepth() int {
	return len(p.Expected)
}

// PromotionMode returns the parsed promotion setting.
func (c *Config) PromotionMode() board.PromotionMode {
	mode, _ := board.ParsePromotionMode(c.Promotions)
	return mode
}

// Suite returns the suite with the given name.
func (c *Config) Suite(name string) (Suite, bool) {
	for _, s := range c.Suites {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

// Default returns the built-in configuration.
func Default() *Config {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("config: built-in defaults: %v", err))
	}
	return c
}

// Load reads a configuration file. Settings missing from the file keep their
// built-in values; a suites list in the file replaces the built-in suites.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}

	c, err := parseOver(Default(), data)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	return parseOver(&Config{}, data)
}

func parseOver(c *Config, data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting and position.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := board.ParsePromotionMode(c.Promotions); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Cache.TableSize < 0 {
		return fmt.Errorf("%w: cache.table_size must not be negative, got %d", ErrInvalidConfig, c.Cache.TableSize)
	}

	suites := make(map[string]bool)
	for _, s := range c.Suites {
		if s.Name == "" {
			return fmt.Errorf("%w: suite without a name", ErrInvalidConfig)
		}
		if suites[s.Name] {
			return fmt.Errorf("%w: duplicate suite %q", ErrInvalidConfig, s.Name)
		}
		suites[s.Name] = true

		for i, p := range s.Positions {
			if _, err := board.ParsePosition(p.FEN); err != nil {
				return fmt.Errorf("%w: suite %q position %d (%s): %w", ErrInvalidConfig, s.Name, i, p.Name, err)
			}
		}
	}
	return nil
}
