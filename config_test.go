package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/john/elegoo_hub/printer"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range []string{
		"PROTOTIPALO_URL", "ELEGOO_HUB_SECRET", "ELEGOO_POLL_INTERVAL",
		"LOG_LEVEL", "DEBUG", "LOG_OUTPUT", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://tu-app.vercel.app", cfg.Hub.URL)
	assert.Equal(t, "changeme", cfg.Hub.Secret)
	assert.Equal(t, 30*time.Second, cfg.PollInterval())
	assert.Equal(t, 10*time.Second, cfg.PublishTimeout())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Len(t, cfg.Printers, 5)
	assert.Equal(t, "ELEGOO-N4M-1", cfg.Printers[0].Serial)
	assert.Equal(t, "ELEGOO-GIGA-1", cfg.Printers[4].Serial)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROTOTIPALO_URL", "https://prototipalo.example")
	t.Setenv("ELEGOO_HUB_SECRET", "hub-token")
	t.Setenv("ELEGOO_POLL_INTERVAL", "60")
	t.Setenv("DEBUG", "yes")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://prototipalo.example", cfg.Hub.URL)
	assert.Equal(t, "hub-token", cfg.Hub.Secret)
	assert.Equal(t, time.Minute, cfg.PollInterval())
	assert.True(t, cfg.Log.Debug)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ELEGOO_HUB_SECRET", "from-env")

	path := writeConfig(t, `
hub:
  url: http://localhost:3000
  secret: from-file
  poll_interval: 15
fetch:
  timeout: 2
printers:
  - ip: 192.168.1.70
    serial: ELEGOO-N4P-1
    name: Neptune 4 Pro
    model: Neptune 4 Pro
  - ip: 192.168.1.71:7125
    serial: ELEGOO-N4P-2
    model: Neptune 4 Pro
    transport: websocket
log:
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Hub.URL)
	assert.Equal(t, "from-env", cfg.Hub.Secret)
	assert.Equal(t, 15*time.Second, cfg.PollInterval())
	assert.Equal(t, 10*time.Second, cfg.PublishTimeout())
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout())
	assert.Equal(t, "json", cfg.Log.Format)

	require.Len(t, cfg.Printers, 2)
	assert.Equal(t, printer.TransportHTTP, cfg.Printers[0].Transport)
	assert.Equal(t, "ELEGOO-N4P-2", cfg.Printers[1].Name)
	assert.Equal(t, printer.TransportWebSocket, cfg.Printers[1].Transport)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad yaml", body: "hub: [unclosed"},
		{name: "duplicate serial", body: "printers:\n  - {ip: a, serial: X}\n  - {ip: b, serial: X}\n"},
		{name: "empty printers", body: "printers: []\n"},
		{name: "zero interval", body: "hub:\n  poll_interval: 0\n"},
		{name: "bad interval env", body: "", env: map[string]string{"ELEGOO_POLL_INTERVAL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestExampleConfigParses(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("config.example.yaml")
	require.NoError(t, err)

	require.Len(t, cfg.Printers, 2)
	assert.Equal(t, printer.TransportWebSocket, cfg.Printers[1].Transport)
}
