package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioBench/internal/apperr"
)

func isolateEnv(t *testing.T) {
	for _, k := range []string{"COOKIE", "TRADING212_BASE_URL", "BENCHMARK_TICKER", "REFRESH_EXTERNAL_DATA",
		"EXTERNAL_DATA_FILE", "CACHE_DRIVER", "HTTPS_PROXY", "LOG_LEVEL", "CONFIG_PATH"} {
		t.Setenv(k, "")
	}
}

func mid(y int, m time.Month) int64 { return time.Date(y, m, 15, 12, 0, 0, 0, time.UTC).Unix() }

func fakeUpstreams(t *testing.T) (brokerage, yahoo *httptest.Server) {
	brokerage = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SESSION=abc", r.Header.Get("Cookie"))
		switch r.URL.Query().Get("period") {
		case "ALL":
			fmt.Fprint(w, `{"snapshots":[
				{"time":"2021-01-15T00:00:00Z","investment":1000,"ppl":50},
				{"time":"2021-02-15T00:00:00Z","investment":1000,"ppl":-20}]}`)
		case "LAST_DAY":
			fmt.Fprint(w, `{"snapshots":[{"time":"2021-03-01T15:00:00Z","investment":1100,"ppl":33}]}`)
		}
	}))
	yahoo = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		fmt.Fprintf(w, `{"chart":{"error":null,"result":[{"timestamp":[%d,%d,%d],"indicators":{"adjclose":[{"adjclose":[100,110,120]}]}}]}}`,
			mid(2021, 1), mid(2021, 2), mid(2021, 3))
	}))
	t.Cleanup(brokerage.Close)
	t.Cleanup(yahoo.Close)
	return brokerage, yahoo
}

func writeConfig(t *testing.T, dir, body string) string {
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCompareEndToEnd(t *testing.T) {
	isolateEnv(t)
	brokerage, yahoo := fakeUpstreams(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "charts", "comparison.svg")
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
brokerage:
  base_url: %s
benchmark:
  base_url: %s
  refresh: true
cache:
  driver: file
  dir: %s
chart:
  width: 640
  height: 360
log:
  level: error
`, brokerage.URL, yahoo.URL, filepath.Join(dir, "data")))

	var stdout bytes.Buffer
	cmd := &compareCmd{configPath: cfgPath, out: out, stdin: strings.NewReader("SESSION=abc\n"), stdout: &stdout}
	status := cmd.Execute(context.Background(), nil)
	require.Equal(t, subcommands.ExitSuccess, status, stdout.String())

	assert.Contains(t, stdout.String(), "Enter the cookie string: ")
	assert.Contains(t, stdout.String(), "portfolio 3.00% since 01-2021")
	assert.Contains(t, stdout.String(), "^GSPC % Change 20.00%")
	assert.Contains(t, stdout.String(), "chart written to "+out)

	svg, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.FileExists(t, filepath.Join(dir, "data", "^GSPC.json"))
}

func TestCompareFromStartMonth(t *testing.T) {
	isolateEnv(t)
	brokerage, yahoo := fakeUpstreams(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`
brokerage:
  base_url: %s
  cookie: SESSION=abc
benchmark:
  base_url: %s
  refresh: true
cache:
  dir: %s
log:
  level: error
`, brokerage.URL, yahoo.URL, filepath.Join(dir, "data")))

	var stdout bytes.Buffer
	cmd := &compareCmd{configPath: cfgPath, start: "02-2021", out: filepath.Join(dir, "c.png"), stdout: &stdout}
	require.Equal(t, subcommands.ExitSuccess, cmd.Execute(context.Background(), nil), stdout.String())
	assert.Contains(t, stdout.String(), "since 02-2021")
	assert.Contains(t, stdout.String(), "^GSPC % Change 9.09%")

	cmd = &compareCmd{configPath: cfgPath, start: "2021-02", stdout: &bytes.Buffer{}}
	assert.Equal(t, subcommands.ExitFailure, cmd.Execute(context.Background(), nil))
}

func TestCompareRequiresCacheFileWithoutRefresh(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "brokerage:\n  cookie: a=b\n")

	cmd := &compareCmd{configPath: cfgPath, stdout: &bytes.Buffer{}}
	assert.Equal(t, subcommands.ExitFailure, cmd.Execute(context.Background(), nil))
}

func TestPromptCookie(t *testing.T) {
	var prompt bytes.Buffer
	cookie, err := promptCookie(strings.NewReader("  a=b; c=d  \n"), &prompt)
	require.NoError(t, err)
	assert.Equal(t, "a=b; c=d", cookie)
	assert.Equal(t, "Enter the cookie string: ", prompt.String())

	_, err = promptCookie(strings.NewReader(""), &prompt)
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, defaultConfigPath, configPath(""))
	t.Setenv("CONFIG_PATH", "/etc/bench.yaml")
	assert.Equal(t, "/etc/bench.yaml", configPath(""))
	assert.Equal(t, "x.yaml", configPath("x.yaml"))
}
