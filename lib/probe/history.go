package probe

import (
	"apiprobe/lib/probe/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
)

var ErrUnknownRun = errors.New("no such run")

// History keeps past runs and their per-endpoint results.
type History struct {
	db  *sql.DB
	qry *db.Queries
}

// NewHistory creates the history tables if they are missing.
func NewHistory(ctx context.Context, database *sql.DB) (History, error) {
	_, err := database.ExecContext(ctx, db.Schema)
	if err != nil {
		return History{}, err
	}
	return History{
		db:  database,
		qry: db.New(database),
	}, nil
}

func (h History) Record(ctx context.Context, baseUrl string, summary Summary) error {
	ctx, span := tracer.Start(ctx, "History:Record")
	defer span.End()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tx.Rollback()
	txqry := h.qry.WithTx(tx)

	err = txqry.CreateRun(ctx, db.CreateRunParams{
		ID:        summary.RunId,
		Title:     summary.Title,
		BaseUrl:   baseUrl,
		StartedAt: summary.StartedAt.Unix(),
		Total:     int64(len(summary.Results)),
		Succeeded: int64(summary.Succeeded()),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	for i, r := range summary.Results {
		err = txqry.CreateResult(ctx, db.Result{
			RunID:      summary.RunId,
			Idx:        int64(i),
			Endpoint:   r.Endpoint.Name,
			Method:     r.Endpoint.Method,
			Url:        r.Endpoint.Url,
			StatusCode: int64(r.StatusCode),
			Success:    r.Success,
			Failure:    r.Failure.String(),
			Error:      r.Error,
			DurationMs: r.Duration.Milliseconds(),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	return tx.Commit()
}

type RunRecord struct {
	Id        string
	Title     string
	BaseUrl   string
	StartedAt time.Time
	Total     int
	Succeeded int
}

func (h History) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := h.qry.GetRecentRuns(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	records := make([]RunRecord, len(rows))
	for i, row := range rows {
		records[i] = RunRecord{
			Id:        row.ID,
			Title:     row.Title,
			BaseUrl:   row.BaseUrl,
			StartedAt: time.Unix(row.StartedAt, 0),
			Total:     int(row.Total),
			Succeeded: int(row.Succeeded),
		}
	}
	return records, nil
}

// Results returns the per-endpoint results of a run, in probing order.
func (h History) Results(ctx context.Context, runId string) ([]db.Result, error) {
	_, err := h.qry.GetRun(ctx, runId)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w %q", ErrUnknownRun, runId)
	}
	if err != nil {
		return nil, err
	}
	return h.qry.GetRunResults(ctx, runId)
}
