package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/tcembed/ai"
	"github.com/poiesic/tcembed/source"
	"github.com/poiesic/tcembed/storage"
)

const (
	// DefaultPause is the delay between consecutive records.
	DefaultPause = 100 * time.Millisecond

	// DefaultSourceTag is written to each document's metadata.
	DefaultSourceTag = "embedding-api"
)

// Driver runs a batch of test cases through embedding and storage.
type Driver struct {
	source    source.Source
	embedder  ai.Embedder
	writer    storage.DocumentWriter
	pause     time.Duration
	sourceTag string
	runID     string
	now       func() time.Time
	reporter  Reporter
	logger    *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithPause sets the delay between consecutive records.
// Zero disables the pause.
func WithPause(pause time.Duration) Option {
	return func(d *Driver) error {
		if pause < 0 {
			return errors.New("pause cannot be negative")
		}
		d.pause = pause
		return nil
	}
}

// WithSourceTag sets the source-system tag stored in document metadata.
func WithSourceTag(tag string) Option {
	return func(d *Driver) error {
		if tag == "" {
			return errors.New("source tag cannot be empty")
		}
		d.sourceTag = tag
		return nil
	}
}

// WithClock sets the function used to stamp documents and the report.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) error {
		if now != nil {
			d.now = now
		}
		return nil
	}
}

// WithReporter sets where per-record progress and the final summary go.
// Default discards them.
func WithReporter(reporter Reporter) Option {
	return func(d *Driver) error {
		if reporter != nil {
			d.reporter = reporter
		}
		return nil
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(runID string) Option {
	return func(d *Driver) error {
		if runID == "" {
			return errors.New("run id cannot be empty")
		}
		d.runID = runID
		return nil
	}
}

// NewDriver creates a Driver for one run.
func NewDriver(src source.Source, embedder ai.Embedder, writer storage.DocumentWriter, opts ...Option) (*Driver, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}

	d := &Driver{
		source:    src,
		embedder:  embedder,
		writer:    writer,
		pause:     DefaultPause,
		sourceTag: DefaultSourceTag,
		runID:     uuid.NewString(),
		now:       time.Now,
		reporter:  nopReporter{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	d.logger = d.logger.With("component", "ingestion", "run", d.runID)

	return d, nil
}

// RunID returns the identifier shared by every document of the run.
func (d *Driver) RunID() string {
	return d.runID
}

// Run loads the batch and processes each record in order.
// A source failure aborts the run. Per-record failures are reported in the
// returned Report and do not stop the run. If ctx is cancelled between
// records, Run returns the partial report together with ctx.Err().
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   d.runID,
		Started: d.now(),
	}

	cases, err := d.source.Load(ctx)
	if err != nil {
		d.logger.Error("error loading test cases", "err", err)
		return nil, err
	}

	d.logger.Info("loaded test cases", "records", len(cases))
	d.reporter.Start(d.runID, len(cases))

	proc := &recordProcessor{
		embedder:  d.embedder,
		writer:    d.writer,
		sourceTag: d.sourceTag,
		runID:     d.runID,
		now:       d.now,
		logger:    d.logger,
	}

	report.Results = make([]RecordResult, 0, len(cases))
	for i, tc := range cases {
		if i > 0 {
			if err := d.wait(ctx); err != nil {
				return d.finish(report), err
			}
		}
		if err := ctx.Err(); err != nil {
			return d.finish(report), err
		}

		result := proc.process(ctx, tc)
		report.Results = append(report.Results, result)
		d.reporter.Record(tc, result)
	}

	return d.finish(report), nil
}

// finish stamps the report, aggregates totals and hands it to the reporter.
func (d *Driver) finish(report *Report) *Report {
	report.Finished = d.now()
	report.Totals = Summarize(report.Results)

	d.logger.Info("run complete",
		"records", report.Totals.Records,
		"stored", report.Totals.Stored,
		"failed", report.Totals.Failed,
		"cost", report.Totals.Cost,
		"tokens", report.Totals.Tokens)

	d.reporter.Finish(report)
	return report
}

// wait sleeps for the configured pause or until ctx is done.
func (d *Driver) wait(ctx context.Context) error {
	if d.pause <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
