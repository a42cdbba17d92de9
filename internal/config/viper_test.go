package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.InDelta(t, 0.25, config.Normalize.DropThreshold, 1e-9)
	assert.Equal(t, "rules.yaml", config.Categorize.RulesFile)
	assert.Equal(t, "other", config.Categorize.FallbackCategory)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, 30, config.Locking.StaleAfterMinutes)
}

func TestInitializeConfig_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEDGER_LOG_LEVEL", "debug")
	t.Setenv("LEDGER_NORMALIZE_DROP_THRESHOLD", "0.5")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", config.Log.Level)
	assert.InDelta(t, 0.5, config.Normalize.DropThreshold, 1e-9)
}

func TestInitializeConfig_GeminiKeyFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-key", config.AI.APIKey)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.Log.Level = "info"
		c.Log.Format = "text"
		c.CSV.Delimiter = ","
		c.Normalize.DropThreshold = 0.25
		c.Locking.StaleAfterMinutes = 30
		return c
	}

	assert.NoError(t, validateConfig(base()))

	bad := base()
	bad.Log.Level = "verbose"
	assert.Error(t, validateConfig(bad))

	bad = base()
	bad.Log.Format = "xml"
	assert.Error(t, validateConfig(bad))

	bad = base()
	bad.CSV.Delimiter = ";;"
	assert.Error(t, validateConfig(bad))

	bad = base()
	bad.Normalize.DropThreshold = 1.5
	assert.Error(t, validateConfig(bad))

	bad = base()
	bad.AI.Enabled = true
	assert.Error(t, validateConfig(bad), "enabling AI without a key must fail")

	bad = base()
	bad.Locking.StaleAfterMinutes = 0
	assert.Error(t, validateConfig(bad))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := &Config{}
	c.Log.Level = "debug"
	c.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)

	c.Log.Level = "nonsense"
	c.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
