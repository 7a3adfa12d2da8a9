//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Aequivinius/lodqa/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

// goldenDir returns the path to the testdata/golden directory.
func goldenDir() string {
	return filepath.Join("..", "..", "testdata", "golden")
}

// renderScenario returns the golden outputs of a scenario by file name: the
// JSON export document and the DOT rendering.
func renderScenario(t *testing.T, sc scenario) map[string][]byte {
	t.Helper()

	g := newScenarioGraphicator(t, sc)
	res, err := g.Run(context.Background(), sc.Query, nil)
	require.NoError(t, err)

	doc := export.NewDocument(g.ParserName(), res.Parse, res.PGP)
	doc.ExportedAt = ""
	doc.Rendering = res.Rendering
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, doc))

	return map[string][]byte{
		sc.Name + ".json": buf.Bytes(),
		sc.Name + ".dot":  []byte(res.Rendering),
	}
}

// TestGolden compares scenario outputs against golden files. Missing golden
// files are skipped with a message to run with -update.
func TestGolden(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		for name, actual := range renderScenario(t, sc) {
			t.Run(name, func(t *testing.T) {
				golden, err := os.ReadFile(filepath.Join(goldenDir(), name))
				if os.IsNotExist(err) {
					t.Skipf("golden file %s not found; run with -update to generate", name)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, string(golden), string(actual), "output for %s does not match golden file", name)
			})
		}
	}
}

// TestUpdateGolden regenerates golden files from the current outputs.
// Run with: go test -tags e2e -run TestUpdateGolden ./internal/e2e/ -update
func TestUpdateGolden(t *testing.T) {
	if !*update {
		t.Skip("skipping golden file update; run with -update flag")
	}
	require.NoError(t, os.MkdirAll(goldenDir(), 0o755))

	for _, sc := range loadScenarios(t) {
		for name, data := range renderScenario(t, sc) {
			require.NoError(t, os.WriteFile(filepath.Join(goldenDir(), name), data, 0o644))
			t.Logf("updated %s", name)
		}
	}
}
