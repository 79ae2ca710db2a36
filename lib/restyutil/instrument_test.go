package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func TestInstrumentClientWritesExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	out := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, out)

	_, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]int{"sim_id": 164}).
		Post(server.URL + "/post/insert_simulacao")
	if err != nil {
		t.Fatal(err)
	}

	msg, ok := out.messages["001-POST"]
	require.True(t, ok)
	require.Contains(t, msg, "---- REQUEST ----")
	require.Contains(t, msg, "POST "+server.URL+"/post/insert_simulacao")
	require.Contains(t, msg, `{"sim_id":164}`)
	require.Contains(t, msg, "---- RESPONSE ----")
	require.Contains(t, msg, "200 "+server.URL)
	require.Contains(t, msg, `{"ok":true}`)
}

func TestInstrumentClientWritesErrors(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	out := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, out)

	_, err := client.R().Get(url)
	require.Error(t, err)

	msg, ok := out.messages["001-GET"]
	require.True(t, ok)
	require.Contains(t, msg, "---- ERROR ----")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	out.Write("001-GET", "contents")

	written, err := os.ReadFile(filepath.Join(out.Directory(), "001-GET"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "contents", string(written))
}

func TestFilesystemOutputKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	for name, contents := range map[string]string{
		"probe.json5":  "{}",
		"test_api.txt": "report",
		"001-GET":      "old exchange",
		"002-POST":     "old exchange",
	} {
		err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0600)
		if err != nil {
			t.Fatal(err)
		}
	}

	_, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"probe.json5", "test_api.txt"}, names)
}

func TestFormatHeadersSorted(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-B", "2")
	headers.Set("X-A", "1")
	require.Equal(t, "X-A: 1\nX-B: 2", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(http.Header{}))
	require.False(t, strings.HasSuffix(formatHeaders(headers), "\n"))
}
