package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nebula.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[server]
address = "0.0.0.0"
port = 8080

[content]
public_dir = "www"
default_file = "home.html"
`)

	cfg, src := Load(path, discardLogger())
	assert.Equal(t, SourceFile, src)
	assert.Equal(t, Config{
		Server:  ServerConfig{Address: "0.0.0.0", Port: 8080},
		Content: ContentConfig{PublicDir: "www", DefaultFile: "home.html"},
	}, cfg)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[server]
address = "127.0.0.1"
port = 9000
workers = 4

[content]
public_dir = "public"
default_file = "index.html"

[extra]
note = "ignored"
`)

	cfg, src := Load(path, discardLogger())
	assert.Equal(t, SourceFile, src)
	assert.EqualValues(t, 9000, cfg.Server.Port)
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed toml", body: "[server\naddress = "},
		{name: "empty file", body: ""},
		{name: "missing content section", body: "[server]\naddress = \"0.0.0.0\"\nport = 80\n"},
		{name: "port out of range", body: "[server]\naddress = \"a\"\nport = 70000\n[content]\npublic_dir = \"p\"\ndefault_file = \"i\"\n"},
		{name: "negative port", body: "[server]\naddress = \"a\"\nport = -1\n[content]\npublic_dir = \"p\"\ndefault_file = \"i\"\n"},
		{name: "port as string", body: "[server]\naddress = \"a\"\nport = \"80\"\n[content]\npublic_dir = \"p\"\ndefault_file = \"i\"\n"},
		{name: "address as number", body: "[server]\naddress = 1\nport = 80\n[content]\npublic_dir = \"p\"\ndefault_file = \"i\"\n"},
		{name: "uppercase section", body: "[SERVER]\naddress = \"a\"\nport = 80\n[content]\npublic_dir = \"p\"\ndefault_file = \"i\"\n"},
		{name: "mixed case keys", body: "[server]\nADDRESS = \"0.0.0.0\"\nPort = 9999\n[Content]\npublic_dir = \"www\"\ndefault_file = \"i\"\n"},
		{name: "empty public dir", body: "[server]\naddress = \"a\"\nport = 80\n[content]\npublic_dir = \"\"\ndefault_file = \"i\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			cfg, src := Load(writeConfig(t, tt.body), logger)
			assert.Equal(t, SourceDefault, src)
			assert.Equal(t, Default(), cfg)
			assert.Contains(t, logs.String(), "using defaults")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, src := Load(filepath.Join(t.TempDir(), "absent.toml"), discardLogger())
	assert.Equal(t, SourceDefault, src)
	assert.Equal(t, "127.0.0.1:7878", cfg.ListenAddr())
	assert.Equal(t, "public", cfg.Content.PublicDir)
	assert.Equal(t, "index.html", cfg.Content.DefaultFile)
}

func TestReadReportsMissingKey(t *testing.T) {
	_, err := Read(writeConfig(t, "[server]\nport = 80\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestReadRejectsKeyCase(t *testing.T) {
	_, err := Read(writeConfig(t, "[server]\naddress = \"a\"\nPort = 80\n[content]\npublic_dir = \"p\"\ndefault_file = \"i\"\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "server.port")
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Config{
		Server:  ServerConfig{Address: "localhost", Port: 65535},
		Content: ContentConfig{PublicDir: "site", DefaultFile: "main.html"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, want))
	assert.Contains(t, buf.String(), "[server]")
	assert.Contains(t, buf.String(), "[content]")

	got, err := Read(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
