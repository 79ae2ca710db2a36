package probe

import (
	"apiprobe/lib/telemetry"
	"apiprobe/lib/timezone"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mazen160/go-random"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("apiprobe/probe")

const DefaultTitle = "SUPERLEME"

// Prober sends the request described by an endpoint.
type Prober interface {
	Do(ctx context.Context, endpoint Endpoint) (Response, error)
}

type Runner struct {
	// printed as "<Title> API ENDPOINT TESTS"
	Title     string
	Prober    Prober
	Endpoints []Endpoint
	// shown in each request preview
	Headers  map[string]string
	Cookies  map[string]string
	Insecure bool
	Report   *Report
	// defaults to timezone.Now
	Now func() time.Time
}

type Result struct {
	Endpoint   Endpoint
	StatusCode int
	Success    bool
	Failure    FailureKind
	Error      string
	Duration   time.Duration
}

type Summary struct {
	RunId     string
	Title     string
	StartedAt time.Time
	Results   []Result
}

func (s Summary) Succeeded() int {
	count := 0
	for _, r := range s.Results {
		if r.Success {
			count++
		}
	}
	return count
}

func (r Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return timezone.Now()
}

func (r Runner) title() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return strings.ToUpper(r.Title)
}

func newRunId() string {
	id, err := random.String(12)
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return id
}

// Run probes every endpoint in order. per-endpoint failures are written
// to the report and never stop the run, only a failing report write
// returns an error.
func (r Runner) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	summary := Summary{
		RunId:     newRunId(),
		Title:     r.title(),
		StartedAt: r.now(),
	}
	span.SetAttributes(
		attribute.String("run_id", summary.RunId),
		attribute.Int("endpoints", len(r.Endpoints)),
	)

	err := r.Report.Lines(
		Separator,
		fmt.Sprintf("%s API ENDPOINT TESTS", summary.Title),
		fmt.Sprintf("Test executed at: %s", timezone.Timestamp(summary.StartedAt)),
		Separator,
		"",
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write banner")
		return summary, err
	}

	for _, endpoint := range r.Endpoints {
		result, err := r.probe(ctx, endpoint)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to write endpoint result")
			return summary, err
		}
		summary.Results = append(summary.Results, result)

		err = r.Report.Lines("")
		if err != nil {
			return summary, err
		}
	}

	err = r.Report.Lines(
		"",
		Separator,
		"TEST COMPLETED",
		Separator,
		fmt.Sprintf("Total endpoints tested: %d", len(r.Endpoints)),
		fmt.Sprintf("Results saved to: %s", r.Report.Path()),
		Separator,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write summary")
		return summary, err
	}

	slog.DebugContext(
		ctx, "run finished",
		"run_id", summary.RunId,
		"succeeded", summary.Succeeded(),
		"total", len(summary.Results),
	)
	return summary, nil
}

// send performs the request and renders it, panics raised on the way are
// turned into errors so the run can go on.
func (r Runner) send(ctx context.Context, endpoint Endpoint) (res Response, lines []string, err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			res = Response{}
			lines = nil
			err = pkgerrors.WithStack(PanicError{Value: recovered})
		}
	}()

	res, err = r.Prober.Do(ctx, endpoint)
	if err != nil {
		return res, nil, err
	}
	return res, RenderResponse(ctx, res), nil
}

func (r Runner) probe(ctx context.Context, endpoint Endpoint) (Result, error) {
	ctx, span := tracer.Start(ctx, "probe")
	defer span.End()
	span.SetAttributes(
		attribute.String("endpoint", endpoint.Name),
		attribute.String("method", endpoint.Method),
		attribute.String("url", endpoint.Url),
	)

	err := r.Report.Lines(RenderRequest(endpoint, r.Headers, r.Cookies)...)
	if err != nil {
		return Result{}, err
	}

	result := Result{Endpoint: endpoint}
	start := time.Now()
	res, lines, sendErr := r.send(ctx, endpoint)
	result.Duration = time.Since(start)

	if sendErr != nil {
		result.Failure = Classify(sendErr)
		result.Error = sendErr.Error()
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, result.Failure.String())
		slog.DebugContext(
			ctx, "probe failed",
			"endpoint", endpoint.Name,
			"kind", result.Failure.String(),
			"err", sendErr,
		)
		return result, r.Report.Lines(RenderFailure(sendErr, result.Failure, r.Insecure)...)
	}

	result.StatusCode = res.StatusCode
	result.Success = res.StatusCode == 200
	span.SetAttributes(attribute.Int("status_code", res.StatusCode))
	if !result.Success {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", res.StatusCode))
	}
	return result, r.Report.Lines(lines...)
}
