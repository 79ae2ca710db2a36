package probe

import (
	"apiprobe/lib/probe/db"
	"apiprobe/lib/testutil"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHistory(t testing.TB, file string) History {
	t.Helper()

	database := testutil.SetupDB(t, testutil.Params{
		Name:     "probe",
		DbSchema: db.Schema,
		DbPath:   file,
	})
	history, err := NewHistory(context.Background(), database)
	if err != nil {
		t.Fatal(err)
	}
	return history
}

func TestHistoryRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	history := newTestHistory(t, ":memory:")

	endpoints := DefaultEndpoints("https://superleme.abensoft:8443/")
	older := Summary{
		RunId:     "olderrun0001",
		Title:     DefaultTitle,
		StartedAt: time.Unix(1700000000, 0),
		Results: []Result{
			{Endpoint: endpoints[0], StatusCode: 200, Success: true, Duration: time.Millisecond * 120},
		},
	}
	newer := Summary{
		RunId:     "newerrun0002",
		Title:     DefaultTitle,
		StartedAt: time.Unix(1700000600, 0),
		Results: []Result{
			{Endpoint: endpoints[0], StatusCode: 200, Success: true},
			{
				Endpoint: endpoints[1],
				Failure:  FailureSSL,
				Error:    "tls: failed to verify certificate",
			},
		},
	}
	require.NoError(t, history.Record(ctx, "https://superleme.abensoft:8443/", older))
	require.NoError(t, history.Record(ctx, "https://superleme.abensoft:8443/", newer))

	runs, err := history.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, runs, 2)
	require.Equal(t, "newerrun0002", runs[0].Id)
	require.Equal(t, 2, runs[0].Total)
	require.Equal(t, 1, runs[0].Succeeded)
	require.True(t, runs[0].StartedAt.Equal(newer.StartedAt))
	require.Equal(t, "olderrun0001", runs[1].Id)

	limited, err := history.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, limited, 1)

	results, err := history.Results(ctx, "newerrun0002")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, results, 2)
	require.Equal(t, AuthValidation, results[0].Endpoint)
	require.Equal(t, http.MethodGet, results[0].Method)
	require.True(t, results[0].Success)
	require.Equal(t, InsertSimulation, results[1].Endpoint)
	require.Equal(t, "ssl", results[1].Failure)
	require.False(t, results[1].Success)

	_, err = history.Results(ctx, "missingrun00")
	require.True(t, errors.Is(err, ErrUnknownRun))
	require.Contains(t, err.Error(), `"missingrun00"`)
}

func TestHistoryDuplicateRunRollsBack(t *testing.T) {
	ctx := context.Background()
	history := newTestHistory(t, filepath.Join(t.TempDir(), "history.db"))

	summary := Summary{
		RunId:     "samerun00001",
		Title:     DefaultTitle,
		StartedAt: time.Unix(1700000000, 0),
		Results:   []Result{{Endpoint: DefaultEndpoints("https://example.invalid/")[0]}},
	}
	require.NoError(t, history.Record(ctx, "https://example.invalid/", summary))
	require.Error(t, history.Record(ctx, "https://example.invalid/", summary))

	results, err := history.Results(ctx, "samerun00001")
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, results, 1)
}
