package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lodqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "enju", cfg.Parser.Vendor)
	assert.Equal(t, "http://bionlp.dbcls.jp/enju", cfg.Parser.EnjuURL)
	assert.Equal(t, "http://spacy.dbcls.jp/spacy_rest", cfg.Parser.SpacyURL)
	assert.Equal(t, 30*time.Second, cfg.Parser.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StoreNone, cfg.Store.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvPath, "")
	path := writeYAML(t, `
parser:
  vendor: spaCy
  spacy_url: "http://localhost:5000/spacy"
  timeout: "5s"
server:
  addr: "127.0.0.1:9090"
store:
  kind: kuzu
  path: /tmp/lodqa-archive
log:
  level: DEBUG
  format: json
batch:
  concurrency: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "spacy", cfg.Parser.Vendor)
	assert.Equal(t, "http://localhost:5000/spacy", cfg.Parser.SpacyURL)
	assert.Equal(t, "http://bionlp.dbcls.jp/enju", cfg.Parser.EnjuURL, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Parser.Timeout)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, StoreKuzu, cfg.Store.Kind)
	assert.Equal(t, "/tmp/lodqa-archive", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "parser:\n  vendor: spacy\n")
	t.Setenv(EnvPath, path)
	t.Setenv("LODQA_PARSER", "enju")
	t.Setenv("LODQA_BATCH_CONCURRENCY", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "enju", cfg.Parser.Vendor)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: file")

	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "absent.yaml"))
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvPath, "")
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown vendor", "parser:\n  vendor: stanza\n", "parser.vendor"},
		{"bad url", "parser:\n  enju_url: \"ftp://x\"\n", "parser.enju_url"},
		{"negative timeout", "parser:\n  timeout: \"-1s\"\n", "parser.timeout"},
		{"unknown store", "store:\n  kind: postgres\n", "store.kind"},
		{"bad level", "log:\n  level: trace\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"negative concurrency", "batch:\n  concurrency: -1\n", "batch.concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeYAML(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Default()
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
}

func TestExampleConfigIsValid(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load(filepath.Join("..", "assets", "lodqa.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "enju", cfg.Parser.Vendor)
}
