package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Timeout int               `json:"timeout"`
	Cookies map[string]string `json:"cookies"`
}

func writeFile(t testing.TB, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "probe.local.json5"), LocalPath(filepath.Join("conf", "probe.json5")))
	require.Equal(t, filepath.Join(".", "probe.local"), LocalPath("probe"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "probe.json5"), `{
		// comments are allowed
		name: "superleme",
		timeout: 30,
		cookies: {"z.lang": "en"},
	}`)
	writeFile(t, filepath.Join(dir, "probe.local.json5"), `{
		timeout: 5,
		cookies: {"z.auth": "secret"},
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "probe.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "superleme", cfg.Name)
	require.Equal(t, 5, cfg.Timeout)
	require.Equal(t, "en", cfg.Cookies["z.lang"])
	require.Equal(t, "secret", cfg.Cookies["z.auth"])
}

func TestReadConfigExpandsEnv(t *testing.T) {
	t.Setenv("APIPROBE_TEST_TOKEN", "token-from-env")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "probe.json5"), `{cookies: {"z.auth": "${APIPROBE_TEST_TOKEN}"}}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "probe.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "token-from-env", cfg.Cookies["z.auth"])
}

func TestReadConfigKeepsBareDollar(t *testing.T) {
	t.Setenv("abc", "expanded")
	t.Setenv("APIPROBE_TEST_TOKEN", "token")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "probe.json5"), `{
		name: "pa$$word $abc",
		cookies: {"z.auth": "$${APIPROBE_TEST_TOKEN}"},
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "probe.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "pa$$word $abc", cfg.Name)
	require.Equal(t, "$token", cfg.Cookies["z.auth"])
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "probe.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadWithDefaults(t *testing.T) {
	defaults := testConfig{
		Name:    "default",
		Timeout: 30,
		Cookies: map[string]string{"timezone": "-03:00"},
	}

	cfg, err := ReadWithDefaults(filepath.Join(t.TempDir(), "missing.json5"), defaults)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, defaults, cfg)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "probe.json5"), `{name: "override"}`)
	cfg, err = ReadWithDefaults(filepath.Join(dir, "probe.json5"), testConfig{
		Name:    "default",
		Timeout: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "override", cfg.Name)
	require.Equal(t, 30, cfg.Timeout)
}
