package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atsushifx/aglabo-error-core/internal/cli"
	apperrors "github.com/atsushifx/aglabo-error-core/internal/errors"
	"github.com/atsushifx/aglabo-error-core/internal/format"
	"github.com/atsushifx/aglabo-error-core/internal/logging"
	"github.com/atsushifx/aglabo-error-core/internal/report"
	"github.com/atsushifx/aglabo-error-core/internal/server"
	"github.com/atsushifx/aglabo-error-core/internal/tui"
)

// followInterval is how long the follow reader sleeps at end of input
// before polling for more data.
const followInterval = 250 * time.Millisecond

// runReport runs one pass over the input and renders matching records.
func (a *Application) runReport(ctx context.Context, out io.Writer) int {
	if !a.Config.Quiet {
		cli.PrintReportBanner(a.Config, a.ErrWriter)
	}

	stats, summary, err := a.report(ctx, out)
	if err != nil {
		return apperrors.HandleReportError(err, a.ErrWriter)
	}

	if a.Config.Summary && !a.Config.Quiet {
		report.DisplaySummary(out, summary)
	}
	return a.exitCode(stats)
}

// runCompletion prints the completion script for the configured shell.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		return apperrors.HandleReportError(err, a.ErrWriter)
	}
	return apperrors.ExitSuccess
}

// runServe reads the input while serving health and metrics endpoints.
// The server counts every parsed record; both halves stop together when
// the context is cancelled or the reader fails.
func (a *Application) runServe(ctx context.Context, out io.Writer) int {
	if !a.Config.Quiet {
		cli.PrintReportBanner(a.Config, a.ErrWriter)
	}

	srv := server.New(a.Config.Addr, a.Logger)

	var stats report.Stats
	var summary *report.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		var err error
		stats, summary, err = a.report(gctx, out, srv.Sink())
		return err
	})

	// Shutdown on signal is the normal way to stop serve mode, so context
	// cancellation is not reported as a failure here.
	err := g.Wait()
	if err != nil && !apperrors.IsContextError(err) {
		return apperrors.HandleReportError(err, a.ErrWriter)
	}

	if a.Config.Summary && !a.Config.Quiet && summary != nil {
		report.DisplaySummary(out, summary)
	}
	return a.exitCode(stats)
}

// runTUI parses the whole input up front and opens the record browser.
func (a *Application) runTUI(ctx context.Context) int {
	in, err := a.openInput()
	if err != nil {
		return apperrors.HandleReportError(err, a.ErrWriter)
	}
	defer in.Close()

	collected := &collectSink{logger: a.Logger}
	if _, err := report.ParseStream(ctx, in, a.Config.MaxLineBytes, collected); err != nil {
		return apperrors.HandleReportError(err, a.ErrWriter)
	}

	return tui.Run(ctx, collected.records, a.Config.Input)
}

// report runs one pass over the input, fanning records out to the render
// sink, the summary accumulator, and any extra sinks. Rendered records go
// to out, or to the configured output file when one is set; the summary is
// the caller's business and always stays on out.
func (a *Application) report(ctx context.Context, out io.Writer, extra ...report.Sink) (report.Stats, *report.Summary, error) {
	start := time.Now()

	in, err := a.openInput()
	if err != nil {
		return report.Stats{}, nil, err
	}
	defer in.Close()

	recordOut := out
	if a.Config.Output != "" {
		f, err := a.openOutput()
		if err != nil {
			return report.Stats{}, nil, err
		}
		defer f.Close()
		recordOut = f
	}

	var reader io.Reader = in
	if a.Config.Follow {
		reader = &followReader{ctx: ctx, r: in, interval: followInterval}
	}

	summary := report.NewSummary()

	sinks := make(report.MultiSink, 0, 3+len(extra))
	sinks = append(sinks, report.FilteredSink{
		Filter: a.filter(),
		Next: renderSink{
			out:    recordOut,
			errOut: a.ErrWriter,
			render: report.RendererFor(a.Config.Format),
			warn:   !a.Config.Quiet,
		},
	})
	if a.Config.Verbose {
		sinks = append(sinks, logSink{logger: a.Logger})
	}
	sinks = append(sinks, summary)
	sinks = append(sinks, extra...)

	stats, err := report.ParseStream(ctx, reader, a.Config.MaxLineBytes, sinks)

	a.Logger.Debug("report pass finished",
		logging.Int("lines", stats.Lines),
		logging.Int("records", stats.Records),
		logging.Int("malformed", stats.Malformed),
		logging.String("elapsed", format.FormatElapsed(time.Since(start))))

	return stats, summary, err
}

// filter builds the record filter from the configured floor and type.
func (a *Application) filter() report.Filter {
	return report.Filter{
		MinSeverity: a.Config.MinSeverityLevel(),
		ErrorType:   a.Config.ErrorType,
	}
}

// exitCode maps a clean pass to its exit code. Strict mode turns any
// malformed input line into a parse failure.
func (a *Application) exitCode(stats report.Stats) int {
	if a.Config.Strict && stats.Malformed > 0 {
		return apperrors.ExitErrorParse
	}
	return apperrors.ExitSuccess
}

// openInput opens the configured input stream. "-" selects stdin.
func (a *Application) openInput() (io.ReadCloser, error) {
	if a.Config.Input == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(a.Config.Input)
	if err != nil {
		return nil, apperrors.InputError{Path: a.Config.Input, Cause: err}
	}
	return f, nil
}

// openOutput creates the configured record output file, along with any
// missing parent directories.
func (a *Application) openOutput() (*os.File, error) {
	if dir := filepath.Dir(a.Config.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.OutputError{Path: a.Config.Output, Cause: err}
		}
	}
	f, err := os.Create(a.Config.Output)
	if err != nil {
		return nil, apperrors.OutputError{Path: a.Config.Output, Cause: err}
	}
	return f, nil
}

// renderSink writes matching records to the report output. Malformed lines
// go to the error stream unless warnings are switched off (quiet mode).
type renderSink struct {
	out    io.Writer
	errOut io.Writer
	render report.Renderer
	warn   bool
}

func (s renderSink) HandleRecord(rec report.Record) error {
	s.render(s.out, rec)
	return nil
}

func (s renderSink) HandleMalformed(lineNo int, raw string, err error) {
	if s.warn {
		report.DisplayMalformedLine(s.errOut, lineNo, raw, err)
	}
}

// logSink re-emits each record through the structured logger at the level
// matching its severity (verbose mode).
type logSink struct {
	logger logging.Logger
}

func (s logSink) HandleRecord(rec report.Record) error {
	fields := logging.ErrorFields(rec.Rebuild())
	fields = append(fields, logging.Int("line", rec.Line))
	s.logger.Record(rec.SeverityLevel(), rec.Message, fields...)
	return nil
}

func (s logSink) HandleMalformed(lineNo int, _ string, err error) {
	s.logger.Debug("malformed input line",
		logging.Int("line", lineNo),
		logging.Err(err))
}

// collectSink accumulates records for interactive browsing.
type collectSink struct {
	records []report.Record
	logger  logging.Logger
}

func (s *collectSink) HandleRecord(rec report.Record) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *collectSink) HandleMalformed(lineNo int, _ string, err error) {
	if s.logger != nil {
		s.logger.Debug("skipping malformed line",
			logging.Int("line", lineNo),
			logging.Err(err))
	}
}

// followReader turns end of input into a polling wait, so the stream
// behaves like tail -f until the context ends.
type followReader struct {
	ctx      context.Context
	r        io.Reader
	interval time.Duration
}

func (f *followReader) Read(p []byte) (int, error) {
	for {
		n, err := f.r.Read(p)
		if n > 0 || (err != nil && err != io.EOF) {
			return n, err
		}
		select {
		case <-f.ctx.Done():
			return 0, f.ctx.Err()
		case <-time.After(f.interval):
		}
	}
}

var (
	_ report.Sink = renderSink{}
	_ report.Sink = logSink{}
	_ report.Sink = (*collectSink)(nil)
)
