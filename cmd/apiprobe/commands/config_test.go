package commands

import (
	"apiprobe/lib/probe"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "probe.json5"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	require.Equal(t, probe.DefaultTimeout, cfg.Timeout())
	require.False(t, cfg.Insecure)
	require.Empty(t, cfg.Cookies)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SUPERLEME_AUTH", "session-token")

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "probe.json5"), []byte(`{
		environment: "production",
		timeout_seconds: 5,
		insecure: true,
		headers: {"x-probe": "1"},
		cookies: {"z.auth": "${SUPERLEME_AUTH}", "z.lang": "en", "cf_clearance": "${APIPROBE_UNSET_COOKIE}"},
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(filepath.Join(dir, "probe.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, 5*time.Second, cfg.Timeout())
	require.True(t, cfg.Insecure)
	require.Equal(t, "session-token", cfg.Cookies["z.auth"])
	require.NotContains(t, cfg.Cookies, "cf_clearance")
	require.Equal(t, "1", cfg.Headers["x-probe"])
	require.Equal(t, probe.DefaultHeaders()["user-agent"], cfg.Headers["user-agent"])
	require.Equal(t, "test_api.txt", cfg.Output)

	url, err := cfg.ResolveBaseUrl("", "")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://www.superleme.com.br/", url)
}

func TestResolveBaseUrl(t *testing.T) {
	cfg := defaultConfig()

	url, err := cfg.ResolveBaseUrl("", "")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://superleme.abensoft:8443/", url)

	url, err = cfg.ResolveBaseUrl("production", "")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://www.superleme.com.br/", url)

	url, err = cfg.ResolveBaseUrl("production", "http://localhost:8080/")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "http://localhost:8080/", url)

	cfg.BaseUrl = "https://staging.example.com/"
	url, err = cfg.ResolveBaseUrl("production", "")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://staging.example.com/", url)

	_, err = defaultConfig().ResolveBaseUrl("qa", "")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "development, production"), err.Error())
}

func TestMailSummary(t *testing.T) {
	endpoints := probe.DefaultEndpoints("https://superleme.abensoft:8443/")
	summary := probe.Summary{
		RunId:     "abcdefghijkl",
		Title:     probe.DefaultTitle,
		StartedAt: time.Date(2025, time.October, 6, 14, 30, 5, 0, time.UTC),
		Results: []probe.Result{
			{Endpoint: endpoints[0], StatusCode: 200, Success: true},
			{Endpoint: endpoints[1], Failure: probe.FailureTimeout, Error: "context deadline exceeded"},
		},
	}

	text := mailSummary("https://superleme.abensoft:8443/", summary)
	require.Contains(t, text, "Run: abcdefghijkl\n")
	require.Contains(t, text, "GET auth_validation: ok\n")
	require.Contains(t, text, "POST insert_simulation: timeout error: context deadline exceeded\n")
}
