package checks

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rorcheck/internal/platform/config"
	"rorcheck/internal/validator"
)

// newTestContext builds a run context with quiet logging and default tuning.
func newTestContext(t *testing.T) *validator.Context {
	t.Helper()
	return &validator.Context{
		OutputDir: t.TempDir(),
		Config:    config.Default(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// writeBatchCSV writes a tabular input file and points vc at it.
func writeBatchCSV(t *testing.T, vc *validator.Context, lines ...string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	vc.CSVPath = path
}

// writeTreeDoc writes one tree document into vc's tree directory.
func writeTreeDoc(t *testing.T, vc *validator.Context, name, body string) {
	t.Helper()
	if vc.JSONDir == "" {
		vc.JSONDir = t.TempDir()
	}
	require.NoError(t, os.WriteFile(filepath.Join(vc.JSONDir, name), []byte(body), 0o644))
}
