package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvs(t *testing.T, vars map[string]string) func() {
	t.Helper()
	var unset []string
	for k, v := range vars {
		os.Setenv(k, v)
		unset = append(unset, k)
	}
	return func() {
		for _, k := range unset {
			os.Unsetenv(k)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{"ACARS_CONNECTIONS": "udp"})
	defer cleanup()

	cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.QueueCapacity)
	assert.False(t, cfg.SaveAllMessages)
	assert.Equal(t, "./acarshub.db", cfg.DBPath)
	assert.Equal(t, 7, cfg.MessageRetentionDays)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CLIOverridesTakePriority(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{"ACARS_CONNECTIONS": "udp", "DB_PATH": "/env/path.db"})
	defer cleanup()

	cfg, err := Load(Overrides{EnvFile: "nonexistent.env", DBPath: "/cli/path.db", LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "/cli/path.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate_RequiresAtLeastOneDecoder(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())
	cfg.VDLMConnections = "udp"
	assert.NoError(t, cfg.Validate())
}

func TestConnectionsFor(t *testing.T) {
	cfg := &Config{ACARSConnections: "udp", VDLMConnections: "tcp://x:1"}
	assert.Equal(t, "udp", cfg.ConnectionsFor(KindACARS))
	assert.Equal(t, "tcp://x:1", cfg.ConnectionsFor(KindVDLM2))
	assert.Equal(t, "", cfg.ConnectionsFor(KindHFDL))
}
