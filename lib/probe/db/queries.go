package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Run struct {
	ID        string
	Title     string
	BaseUrl   string
	StartedAt int64
	Total     int64
	Succeeded int64
}

type Result struct {
	RunID      string
	Idx        int64
	Endpoint   string
	Method     string
	Url        string
	StatusCode int64
	Success    bool
	Failure    string
	Error      string
	DurationMs int64
}

const createRun = `insert into run (id, title, base_url, started_at, total, succeeded)
values (?, ?, ?, ?, ?, ?)`

type CreateRunParams struct {
	ID        string
	Title     string
	BaseUrl   string
	StartedAt int64
	Total     int64
	Succeeded int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.Title,
		arg.BaseUrl,
		arg.StartedAt,
		arg.Total,
		arg.Succeeded,
	)
	return err
}

const createResult = `insert into result (run_id, idx, endpoint, method, url, status_code, success, failure, error, duration_ms)
values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateResult(ctx context.Context, arg Result) error {
	_, err := q.db.ExecContext(ctx, createResult,
		arg.RunID,
		arg.Idx,
		arg.Endpoint,
		arg.Method,
		arg.Url,
		arg.StatusCode,
		arg.Success,
		arg.Failure,
		arg.Error,
		arg.DurationMs,
	)
	return err
}

const getRecentRuns = `select id, title, base_url, started_at, total, succeeded from run
order by started_at desc, id desc
limit ?`

func (q *Queries) GetRecentRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, getRecentRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		var i Run
		err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.BaseUrl,
			&i.StartedAt,
			&i.Total,
			&i.Succeeded,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getRun = `select id, title, base_url, started_at, total, succeeded from run
where id = ?`

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.BaseUrl,
		&i.StartedAt,
		&i.Total,
		&i.Succeeded,
	)
	return i, err
}

const getRunResults = `select run_id, idx, endpoint, method, url, status_code, success, failure, error, duration_ms from result
where run_id = ?
order by idx asc`

func (q *Queries) GetRunResults(ctx context.Context, runID string) ([]Result, error) {
	rows, err := q.db.QueryContext(ctx, getRunResults, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Result
	for rows.Next() {
		var i Result
		err := rows.Scan(
			&i.RunID,
			&i.Idx,
			&i.Endpoint,
			&i.Method,
			&i.Url,
			&i.StatusCode,
			&i.Success,
			&i.Failure,
			&i.Error,
			&i.DurationMs,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
