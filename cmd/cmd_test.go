// cmd/cmd_test.go
package cmd_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/nullpath-cli/cmd"
	"github.com/xkilldash9x/nullpath-cli/internal/observability"
	"github.com/xkilldash9x/nullpath-cli/internal/oracle"
)

// execute runs a fresh root command with clean global state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	observability.ResetForTest()

	root := cmd.NewRootCommand()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, cmd.Version)
}

func TestScan_RequiresTargetArgument(t *testing.T) {
	t.Setenv("NULLPATH_ORACLE_API_KEY", "test-key")

	_, err := execute(t, "scan")
	require.Error(t, err)
}

func TestScan_MissingAPIKeyIsFatal(t *testing.T) {
	t.Setenv("NULLPATH_ORACLE_API_KEY", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("def f():\n    pass\n"), 0o644))

	_, err := execute(t, "scan", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, oracle.ErrMissingAPIKey)
}

func TestScan_MissingTarget(t *testing.T) {
	t.Setenv("NULLPATH_ORACLE_API_KEY", "test-key")

	_, err := execute(t, "scan", filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target does not exist")
}

func TestScan_EndToEndWithStubbedOracle(t *testing.T) {
	// A stub oracle endpoint confirms every candidate as a High severity
	// bug; the scan must produce a JSON report containing the finding.
	verdict := `{"has_dangerous_path": true, "is_bug": true, "severity": "High", "trigger_condition": "flag=False", "reason": "unguarded"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]},"finishReason":"STOP"}]}`, verdict)
	}))
	defer server.Close()

	t.Setenv("NULLPATH_ORACLE_API_KEY", "test-key")
	t.Setenv("NULLPATH_ORACLE_ENDPOINT", server.URL)

	dir := t.TempDir()
	source := "def f(flag):\n    x = None\n    if flag:\n        x = real()\n    return x.y\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bug.py"), []byte(source), 0o644))

	outPath := filepath.Join(dir, "report.json")
	out, err := execute(t, "scan", dir, "-o", outPath, "-f", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "Report written to")
	assert.Contains(t, out, "[High")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"variable": "x"`)
	assert.Contains(t, string(raw), `"severity": "High"`)
}

func TestScan_NoFindings(t *testing.T) {
	verdict := `{"has_dangerous_path": false, "is_bug": false, "severity": "Low"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%q}]},"finishReason":"STOP"}]}`, verdict)
	}))
	defer server.Close()

	t.Setenv("NULLPATH_ORACLE_API_KEY", "test-key")
	t.Setenv("NULLPATH_ORACLE_ENDPOINT", server.URL)

	dir := t.TempDir()
	source := "def f():\n    x = None\n    if x is not None:\n        return x.y\n    return None\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "safe.py"), []byte(source), 0o644))

	out, err := execute(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No null dereference bugs were found")
}
