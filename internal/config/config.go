package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/chris/gdpdash/internal/render"
)

const DefaultAddr = "127.0.0.1:8050"

// DefaultDescription is shown under the page title
const DefaultDescription = "This dashboard charts GDP per capita over time for the countries you pick. " +
	"Choose one or more countries from the list to add their lines to the chart. " +
	"Drag the ends of the year slider to narrow the period shown. " +
	"Years without a reported value are left out rather than filled in."

// Config holds the settings read from the YAML config file
type Config struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	TimeLabel   string   `yaml:"time_label"`
	ValueLabel  string   `yaml:"value_label"`
	Palette     []string `yaml:"palette"`
	Addr        string   `yaml:"addr"`
	ChartWidth  int      `yaml:"chart_width"`
	ChartHeight int      `yaml:"chart_height"`
	Delimiter   string   `yaml:"delimiter"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Title:       render.DefaultTitle,
		Description: DefaultDescription,
		TimeLabel:   render.DefaultTimeLabel,
		ValueLabel:  render.DefaultValueLabel,
		Addr:        DefaultAddr,
		ChartWidth:  render.DefaultWidth,
		ChartHeight: render.DefaultHeight,
		Delimiter:   ",",
	}
}

// Load reads path over the defaults. An empty path returns the defaults;
// a missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in rendering
func (c Config) Validate() error {
	var errs []error
	if c.ChartWidth < 0 || c.ChartHeight < 0 {
		errs = append(errs, fmt.Errorf("chart size %dx%d must not be negative", c.ChartWidth, c.ChartHeight))
	}
	if utf8.RuneCountInString(c.Delimiter) > 1 {
		errs = append(errs, fmt.Errorf("delimiter %q must be a single character", c.Delimiter))
	}
	for _, color := range c.Palette {
		if !isHexColor(color) {
			errs = append(errs, fmt.Errorf("palette color %q is not #rrggbb", color))
		}
	}
	return errors.Join(errs...)
}

// DelimiterRune returns the CSV delimiter, defaulting to a comma
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// ChartOptions returns the chart labels from the config
func (c Config) ChartOptions() render.ChartOptions {
	return render.ChartOptions{
		Title:      c.Title,
		TimeLabel:  c.TimeLabel,
		ValueLabel: c.ValueLabel,
	}
}

// isHexColor accepts #rrggbb only; shorthand #rgb is rejected
func isHexColor(s string) bool {
	if len(s) != 7 {
		return false
	}
	_, err := colorful.Hex(s)
	return err == nil
}
