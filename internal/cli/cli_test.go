package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCVs = `[
  {"id": 1, "name": "Ada Lovelace", "position_applied": "Engineer", "score": 8.5, "status": "new", "date_received": "2024-03-01"},
  {"id": 2, "name": "Alan Turing", "position_applied": "Researcher", "score": 9.5, "status": "interview", "date_received": "2024-02-01"},
  {"id": 3, "name": "Grace Hopper", "position_applied": "Engineer", "score": 7, "status": "new", "date_received": "2024-01-15"}
]`

// isolateEnv points every config lookup at empty temp directories.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CVDESK_HOME", home)
	t.Setenv("CVDESK_PROJECT_DIR", filepath.Join(t.TempDir(), ".cvdesk"))
	t.Setenv("CVDESK_BASE_URL", "")
	t.Setenv("CVDESK_TOKEN", "")
	t.Setenv("CVDESK_PAGE_SIZE", "")
	t.Setenv("CVDESK_LOG_LEVEL", "")
	return home
}

func writeCVFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cvs.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newCVServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
