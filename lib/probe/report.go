package probe

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Report mirrors every line to the console and to the results file.
type Report struct {
	out  io.Writer
	file *os.File
	path string
}

// NewReport creates (or truncates) the results file at `path`, it stays
// open until Close.
func NewReport(console io.Writer, path string) (*Report, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	return &Report{
		out:  io.MultiWriter(console, file),
		file: file,
		path: path,
	}, nil
}

// NewReportWriter writes to `out` only, `path` is what the summary
// reports as the results location.
func NewReportWriter(out io.Writer, path string) *Report {
	return &Report{out: out, path: path}
}

func (r *Report) Path() string {
	return r.path
}

func (r *Report) Lines(lines ...string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(r.out, strings.Join(lines, "\n")+"\n")
	return err
}

func (r *Report) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
