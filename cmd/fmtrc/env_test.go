package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	for _, key := range []string{"FMTRC_CONFIG", "FMTRC_FORMAT", "FMTRC_LOG_LEVEL", "NO_COLOR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	e, err := parseEnv()
	require.NoError(t, err)
	assert.Equal(t, environment{Format: "json", LogLevel: "warn"}, e)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("FMTRC_CONFIG", "/etc/fmtrc.yaml")
	t.Setenv("FMTRC_FORMAT", "yaml")
	t.Setenv("FMTRC_LOG_LEVEL", "debug")
	t.Setenv("NO_COLOR", "1")

	e, err := parseEnv()
	require.NoError(t, err)
	assert.Equal(t, environment{
		Config:   "/etc/fmtrc.yaml",
		Format:   "yaml",
		LogLevel: "debug",
		NoColor:  "1",
	}, e)
}
