package main

import (
	"path/filepath"
	"testing"

	"github.com/oliverbestmann/cubic/orion"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	err := run(options{configPath: filepath.Join(t.TempDir(), "missing.toml")})

	var configErr *orion.ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestSampleConfigIsValid(t *testing.T) {
	_, err := orion.LoadConfig(filepath.Join("..", "..", "config.toml"))
	require.NoError(t, err)
}
