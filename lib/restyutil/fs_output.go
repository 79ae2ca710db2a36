package restyutil

import (
	devenv "apiprobe/dev/env"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

type FilesystemOutput struct {
	directory string
}

// dump files are named "<n>-<method>", for ex. "001-POST"
var messageFileRegex = regexp.MustCompile(`^\d{3,}-[A-Z]+$`)

// NewFilesystemOutput creates `dir` if needed and clears the messages a
// previous run left in it, any other file in `dir` is left alone.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !messageFileRegex.MatchString(entry.Name()) {
			continue
		}
		err = os.Remove(filepath.Join(dir, entry.Name()))
		if err != nil {
			return FilesystemOutput{}, err
		}
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Directory() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
