package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestInit_WritesReadableDurations(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, Init())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 60s")
	assert.Contains(t, string(data), "scrape_timeout: 10m")

	var cfg localConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	timeout, err := time.ParseDuration(cfg.API.Timeout)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, timeout)
	scrape, err := time.ParseDuration(cfg.API.ScrapeTimeout)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, scrape)

	assert.DirExists(t, secretsDir)
}

func TestInit_KeepsExistingConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	require.NoError(t, os.WriteFile(configFile, []byte("api:\n  url: http://other\n"), 0o644))
	require.NoError(t, Init())

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, "api:\n  url: http://other\n", string(data))
}
