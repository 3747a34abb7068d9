package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/gdpdash/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gdpdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, render.DefaultTitle, cfg.Title)
	assert.Equal(t, ',', cfg.DelimiterRune())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	// Given: a config that sets only some fields
	path := writeConfig(t, `
title: Life Expectancy
value_label: Years
palette: ["#112233", "#AABBCC"]
delimiter: ";"
chart_width: 800
`)

	// When: it is loaded
	cfg, err := Load(path)

	// Then: set fields win and the rest keep their defaults
	require.NoError(t, err)
	assert.Equal(t, "Life Expectancy", cfg.Title)
	assert.Equal(t, "Years", cfg.ValueLabel)
	assert.Equal(t, render.DefaultTimeLabel, cfg.TimeLabel)
	assert.Equal(t, []string{"#112233", "#AABBCC"}, cfg.Palette)
	assert.Equal(t, ';', cfg.DelimiterRune())
	assert.Equal(t, 800, cfg.ChartWidth)
	assert.Equal(t, render.DefaultHeight, cfg.ChartHeight)
	assert.Equal(t, DefaultAddr, cfg.Addr)

	opts := cfg.ChartOptions()
	assert.Equal(t, "Life Expectancy", opts.Title)
	assert.Equal(t, "Years", opts.ValueLabel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "title: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, `
delimiter: "||"
chart_height: -1
palette: [red]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")
	assert.Contains(t, err.Error(), "must not be negative")
	assert.Contains(t, err.Error(), `"red"`)
}

func TestValidate_PaletteColors(t *testing.T) {
	tests := []struct {
		color string
		valid bool
	}{
		{"#1a2B3c", true},
		{"#000000", true},
		{"#abc", false},
		{"#12345g", false},
		{"123456", false},
		{"#1234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			cfg := Default()
			cfg.Palette = []string{tt.color}
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
