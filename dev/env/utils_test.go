package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPassthrough(t *testing.T) {
	path, err := ResolvePath("results/test_api.txt")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "results/test_api.txt", path)
}

func TestResolvePathDevState(t *testing.T) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		t.Fatal(err)
	}

	path, err := ResolvePath("<dev_state>/history.db")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, filepath.Join(root, "dev", ".state", "history.db"), path)

	stat, err := os.Stat(filepath.Join(root, "dev", ".state"))
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, stat.IsDir())
}
