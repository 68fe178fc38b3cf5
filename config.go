package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ColorMode selects when text output carries ANSI colors. HTML output is
// always styled.
type ColorMode string

const (
	// ColorAuto colors text written to a terminal unless NO_COLOR is set.
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ErrInvalidConfig is returned for configuration values out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds document-wide defaults. Tables inherit the values they do not
// set themselves.
type Config struct {
	// Width is the target width; 0 probes the terminal.
	Width           int               `yaml:"width"`
	VisibleLines    int               `yaml:"visible_lines"`
	ColumnSeparator string            `yaml:"column_separator"`
	Indent          string            `yaml:"indent"`
	Colors          ColorMode         `yaml:"colors"`
	AutoWidth       *bool             `yaml:"autowidth"`
	AutoReplace     map[string]string `yaml:"autoreplace"`
	LogLevel        string            `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		VisibleLines:    DefaultVisibleLines,
		ColumnSeparator: DefaultColumnSeparator,
		Indent:          defaultIndent,
		Colors:          ColorAuto,
		LogLevel:        logrus.InfoLevel.String(),
	}
}

// ParseConfig reads a YAML configuration on top of [DefaultConfig]. Unknown
// keys are an error.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("%w: width %d is negative", ErrInvalidConfig, c.Width)
	}
	if c.VisibleLines < 0 {
		return fmt.Errorf("%w: visible_lines %d is negative", ErrInvalidConfig, c.VisibleLines)
	}
	switch c.Colors {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: colors %q, want auto, always or never", ErrInvalidConfig, c.Colors)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
