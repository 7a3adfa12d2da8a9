package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Aequivinius/lodqa/internal/config"
	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("upstream failed", "parser", "enju")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "upstream failed", line["msg"])
	assert.Equal(t, "enju", line["parser"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"})
	logger.Debug("sentence parsed", "tokens", 7)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "tokens=7")
}

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(config.LogConfig{Level: "error", Format: "text"})
	assert.Same(t, logger, slog.Default())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := OpenStore(ctx, config.StoreConfig{Kind: config.StoreNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = OpenStore(ctx, config.StoreConfig{Kind: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &graph.MemStore{}, s)
	require.NoError(t, s.Close())

	_, err = OpenStore(ctx, config.StoreConfig{Kind: "postgres"})
	assert.Error(t, err)
}

func testConfig(t *testing.T, vendor, url string) *config.Config {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Parser.Vendor = vendor
	cfg.Parser.EnjuURL = url
	cfg.Parser.SpacyURL = url
	cfg.Parser.Timeout = 2 * time.Second
	cfg.Store.Kind = config.StoreMemory
	return cfg
}

func TestNew_WiresConfiguredVendor(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("..", "..", "testdata", "fixtures", "enju_genes.conll"))
	require.NoError(t, err)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	a, err := New(context.Background(), testConfig(t, "enju", ts.URL), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "enju", a.Graphicator.ParserName())
	require.NotNil(t, a.Archive)

	res, err := a.Graphicator.Run(context.Background(), "what genes are related to alzheimer?", nil)
	require.NoError(t, err)
	assert.Equal(t, "genes", res.PGP.Nodes["t0"].Text)
	assert.NotEmpty(t, res.ArchiveID)

	stats, err := a.Archive.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.QueryCount)
}

func TestNew_SpacyVendor(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, "spacy", "http://127.0.0.1:1"), nil)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "spacy", a.Graphicator.ParserName())
}
