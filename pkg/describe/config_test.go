package describe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	noopLogger
}

func TestMergeConfigs(t *testing.T) {
	t.Run("nil configs yield defaults", func(t *testing.T) {
		cfg := MergeConfigs(nil, nil)
		require.Equal(t, &Config{}, cfg)
	})

	t.Run("booleans are sticky", func(t *testing.T) {
		cfg := MergeConfigs(&Config{Parallel: true}, &Config{NoColor: true})
		require.True(t, cfg.Parallel)
		require.True(t, cfg.NoColor)
	})

	t.Run("last non-zero value wins", func(t *testing.T) {
		cfg := MergeConfigs(
			&Config{Concurrency: 2, Tags: "@a", HTMLReport: "a.html"},
			&Config{Concurrency: 4},
			&Config{Tags: "@b"},
		)
		require.Equal(t, 4, cfg.Concurrency)
		require.Equal(t, "@b", cfg.Tags)
		require.Equal(t, "a.html", cfg.HTMLReport)
	})

	t.Run("seed follows shuffle", func(t *testing.T) {
		cfg := MergeConfigs(&Config{Seed: 7}, &Config{Shuffle: true, Seed: 42})
		require.True(t, cfg.Shuffle)
		require.Equal(t, int64(42), cfg.Seed)
	})
}

func TestConfig_RunLogger(t *testing.T) {
	logger := &recordingLogger{}

	require.Equal(t, NopLogger(), (*Config)(nil).RunLogger())
	require.Equal(t, NopLogger(), (&Config{}).RunLogger())
	require.Same(t, logger, (&Config{Logger: logger}).RunLogger())
	require.Equal(t, NopLogger(), (&Config{Logger: logger, DisableLog: true}).RunLogger())
}

func TestLoadConfig(t *testing.T) {
	t.Run("decodes yaml", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(`
parallel: true
concurrency: 3
shuffle: true
seed: 99
tags: "@smoke and not @slow"
no_color: true
html_report: out/report.html
`))
		require.NoError(t, err)
		require.Equal(t, &Config{
			Parallel:    true,
			Concurrency: 3,
			Shuffle:     true,
			Seed:        99,
			Tags:        "@smoke and not @slow",
			NoColor:     true,
			HTMLReport:  "out/report.html",
		}, cfg)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		require.Equal(t, &Config{}, cfg)
	})

	t.Run("rejects negative concurrency", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("concurrency: -1"))
		require.ErrorContains(t, err, "must not be negative")
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("parallel: [unterminated"))
		require.ErrorContains(t, err, "could not decode config")
	})
}
