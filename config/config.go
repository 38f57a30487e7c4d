// Package config handles gsla.toml conversion settings.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dargueta/gsla"
	"github.com/hashicorp/go-multierror"
)

// FileName is the name of the settings file looked for next to the input.
const FileName = "gsla.toml"

// Config holds every setting the converter reads.
type Config struct {
	Throttle    Throttle    `toml:"throttle"`
	Compression Compression `toml:"compression"`
	Output      Output      `toml:"output"`
}

// Throttle configures frame-difference throttling.
type Throttle struct {
	Enabled bool `toml:"enabled"`
	// Budget is the maximum number of pixel bytes allowed to change between
	// consecutive frames.
	Budget     int `toml:"budget"`
	CellWidth  int `toml:"cell-width"`
	CellHeight int `toml:"cell-height"`
}

// Compression configures the LZB compressor.
type Compression struct {
	PatternRuns bool `toml:"pattern-runs"`
	Validate    bool `toml:"validate"`
}

// Output configures what gets written besides the container.
type Output struct {
	// Stats is the path to write per-frame statistics to, or empty for none.
	Stats    string `toml:"stats"`
	Baseline bool   `toml:"baseline"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Throttle: Throttle{
			Enabled:    false,
			Budget:     4000,
			CellWidth:  8,
			CellHeight: 8,
		},
		Compression: Compression{
			PatternRuns: false,
			Validate:    true,
		},
	}
}

// Load reads settings from the file at `path`. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, gsla.ErrIOFailed.Wrap(err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		if kind, ok := err.(gsla.Error); ok {
			return Config{}, kind.WithMessage(path)
		}
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads settings from TOML text. Unknown keys are an error so that typos
// don't go unnoticed.
func Parse(text string) (Config, error) {
	cfg := Default()
	metadata, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, gsla.ErrInvalidArgument.Wrap(err)
	}

	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return Config{}, gsla.ErrInvalidArgument.WithMessage(
			"unknown settings: " + strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.Throttle.Budget < 0 {
		result = multierror.Append(
			result,
			gsla.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("throttle.budget can't be negative, got %d", c.Throttle.Budget)),
		)
	}
	if c.Throttle.CellWidth < 1 || c.Throttle.CellWidth > gsla.ScreenWidthPixels {
		result = multierror.Append(
			result,
			gsla.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"throttle.cell-width must be in [1, %d], got %d",
					gsla.ScreenWidthPixels,
					c.Throttle.CellWidth,
				),
			),
		)
	}
	if c.Throttle.CellHeight < 1 || c.Throttle.CellHeight > gsla.ScreenHeight {
		result = multierror.Append(
			result,
			gsla.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"throttle.cell-height must be in [1, %d], got %d",
					gsla.ScreenHeight,
					c.Throttle.CellHeight,
				),
			),
		)
	}
	return result.ErrorOrNil()
}
