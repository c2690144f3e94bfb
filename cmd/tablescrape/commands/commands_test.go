package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
	<h1>Últimos datos</h1>
	<table id="menu" class="nav"><tr><td>Inicio</td></tr></table>
	<table class="tablaCat">
		<tr><th>Indicador</th><th>Valor</th></tr>
		<tr><td>Paro</td><td>11,27</td></tr>
		<tr><td>IPC</td><td>1,5</td></tr>
	</table>
</body></html>`

// resetFlags puts every flag of cmd and its subcommands back to its
// default, rootCmd is shared between tests.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags(t, rootCmd)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args,
		"--url", server.URL,
		"--config", filepath.Join(t.TempDir(), "tablescrape.json5"),
	))
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	out := execute(t, "export", "--class", "tablaCat", "--out", path)

	require.Equal(t, "Table found!\nData has been exported to "+path+"\n", out)
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestExportCommandTableNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	out := execute(t, "export", "--class", "missing", "--out", path)

	require.Equal(t, "Table not found.\n", out)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestPreviewCommand(t *testing.T) {
	out := execute(t, "preview", "--class", "tablaCat", "--limit", "1")

	require.Contains(t, out, "Table found!")
	require.Contains(t, out, "INDICADOR")
	require.Contains(t, out, "Paro")
	require.NotContains(t, out, "IPC")
	require.Contains(t, strings.ToLower(out), "1 more rows")
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	out := execute(t, "preview", "--limit", "1", "--no-header")
	require.NotContains(t, out, "IPC")

	out = execute(t, "preview")
	require.Contains(t, out, "INDICADOR")
	require.Contains(t, out, "IPC")
	require.NotContains(t, strings.ToLower(out), "more rows")

	dir := t.TempDir()
	path := filepath.Join(dir, "first.xlsx")
	execute(t, "export", "--out", path)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
	})
	out = execute(t, "export")
	require.Contains(t, out, "Data has been exported to table_data.xlsx")
	_, err = os.Stat(filepath.Join(dir, "table_data.xlsx"))
	require.NoError(t, err)
}

func TestTablesCommand(t *testing.T) {
	out := execute(t, "tables")

	require.Contains(t, out, "menu")
	require.Contains(t, out, "nav")
	require.Contains(t, out, "tablaCat")
	require.Contains(t, out, "Indicador | Valor")
}

func TestTextCommand(t *testing.T) {
	out := execute(t, "text")

	require.Contains(t, out, "Últimos datos")
	require.Contains(t, out, "Paro")
	require.NotContains(t, out, "<td>")
}
