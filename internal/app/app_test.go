package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	apperrors "github.com/atsushifx/aglabo-error-core/internal/errors"
	"github.com/atsushifx/aglabo-error-core/internal/logging/mock_logging"
	"github.com/atsushifx/aglabo-error-core/internal/report"
	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

// fixtureLines is a small input with one malformed line in the middle.
var fixtureLines = []string{
	`{"errorType":"SVC_TIMEOUT","message":"upstream timed out","severity":2,"code":"E1042"}`,
	`{"errorType":"CACHE_MISS","message":"key not found","severity":3}`,
	`not json`,
	`{"errorType":"DISK_FULL","message":"no space left","severity":1}`,
}

// writeInput writes lines to a fixture file and returns its path.
func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "errors.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// runReportApp builds an Application from args, runs it, and restores the
// global theme and log level afterwards. Run tests stay serial because of
// that global state.
func runReportApp(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		ui.SetTheme("dark")
	})

	errBuf := &bytes.Buffer{}
	application, err := New(append([]string{"aglareport"}, args...), errBuf)
	if err != nil {
		t.Fatalf("New(%v) failed: %v", args, err)
	}

	out := &bytes.Buffer{}
	code := application.Run(ctx, out)
	return code, out.String(), errBuf.String()
}

func TestNew_Defaults(t *testing.T) {
	errBuf := &bytes.Buffer{}
	application, err := New([]string{"aglareport"}, errBuf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if application.Config.Format != "pretty" {
		t.Errorf("Format = %q, want %q", application.Config.Format, "pretty")
	}
	if application.Config.Input != "-" {
		t.Errorf("Input = %q, want %q", application.Config.Input, "-")
	}
	if application.Logger == nil {
		t.Error("Logger should be constructed when not injected")
	}
	if application.ErrWriter != errBuf {
		t.Error("ErrWriter should be the writer passed to New")
	}
}

func TestNew_EmptyArgs(t *testing.T) {
	if _, err := New(nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
}

func TestNew_ConfigError(t *testing.T) {
	_, err := New([]string{"aglareport", "--format", "yaml"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected an error for an invalid format")
	}

	var configErr apperrors.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("error = %T, want ConfigError", err)
	}
}

func TestNew_Help(t *testing.T) {
	errBuf := &bytes.Buffer{}
	_, err := New([]string{"aglareport", "--help"}, errBuf)

	if !IsHelpError(err) {
		t.Errorf("IsHelpError(%v) = false, want true", err)
	}
	if !strings.Contains(errBuf.String(), "Usage: aglareport") {
		t.Error("help output should contain the usage banner")
	}
}

func TestNew_WithLogger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockLogger := mock_logging.NewMockLogger(ctrl)

	application, err := New([]string{"aglareport"}, &bytes.Buffer{}, WithLogger(mockLogger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if application.Logger != mockLogger {
		t.Error("injected logger should be kept")
	}
}

func TestIsHelpError(t *testing.T) {
	if IsHelpError(errors.New("boom")) {
		t.Error("ordinary errors are not help errors")
	}
	if IsHelpError(nil) {
		t.Error("nil is not a help error")
	}
}

func TestApplicationRun_TextFormat(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, errOut := runReportApp(t, context.Background(), "--format", "text", "--no-color", path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	for _, want := range []string{
		"SVC_TIMEOUT: upstream timed out",
		"CACHE_MISS: key not found",
		"DISK_FULL: no space left",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(errOut, "! line 3") {
		t.Errorf("error output should warn about the malformed line:\n%s", errOut)
	}
}

func TestApplicationRun_JSONPassthrough(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, _ := runReportApp(t, context.Background(), "--format", "json", "--no-color", path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}

	want := fixtureLines[0] + "\n" + fixtureLines[1] + "\n" + fixtureLines[3] + "\n"
	if out != want {
		t.Errorf("json output = %q, want the raw record lines %q", out, want)
	}
}

func TestApplicationRun_MinSeverity(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, _ := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--min-severity", "ERROR", path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out, "SVC_TIMEOUT") || !strings.Contains(out, "DISK_FULL") {
		t.Errorf("records at or above the floor should be rendered:\n%s", out)
	}
	if strings.Contains(out, "CACHE_MISS") {
		t.Errorf("WARNING record should be dropped by the ERROR floor:\n%s", out)
	}
}

func TestApplicationRun_ErrorTypeFilter(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, _ := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--error-type", "CACHE_MISS", path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out, "CACHE_MISS") {
		t.Errorf("matching record should be rendered:\n%s", out)
	}
	if strings.Contains(out, "SVC_TIMEOUT") || strings.Contains(out, "DISK_FULL") {
		t.Errorf("non-matching records should be dropped:\n%s", out)
	}
}

func TestApplicationRun_Quiet(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, errOut := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--quiet", "--summary", path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out, "SVC_TIMEOUT: upstream timed out") {
		t.Errorf("quiet mode still renders records:\n%s", out)
	}
	if strings.Contains(errOut, "! line") {
		t.Errorf("quiet mode should suppress malformed warnings:\n%s", errOut)
	}
	if strings.Contains(out, "Report Summary") {
		t.Errorf("quiet mode should suppress the summary:\n%s", out)
	}
}

func TestApplicationRun_Banner(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	_, out, errOut := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--min-severity", "WARNING", path)

	for _, want := range []string{"--- aglareport ---", "Reading " + path, "min-severity=WARNING"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("banner missing %q:\n%s", want, errOut)
		}
	}
	if strings.Contains(out, "--- aglareport ---") {
		t.Errorf("banner belongs on the error stream, not stdout:\n%s", out)
	}

	_, _, quietErrOut := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--quiet", path)
	if strings.Contains(quietErrOut, "--- aglareport ---") {
		t.Errorf("quiet mode should suppress the banner:\n%s", quietErrOut)
	}
}

func TestApplicationRun_Summary(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, _ := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--summary", path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	for _, want := range []string{"Report Summary", "Records: 3", "Malformed lines: 1", "FATAL", "ERROR", "WARNING"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestApplicationRun_OutputFile(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	outPath := filepath.Join(t.TempDir(), "rendered", "report.txt")

	code, out, errOut := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--summary", "--output", outPath, path)

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if !strings.Contains(string(written), "SVC_TIMEOUT: upstream timed out") {
		t.Errorf("output file missing the rendered record:\n%s", written)
	}
	if strings.Contains(string(written), "Report Summary") {
		t.Errorf("summary should not be redirected into the output file:\n%s", written)
	}

	if strings.Contains(out, "SVC_TIMEOUT") {
		t.Errorf("records should go to the output file, not stdout:\n%s", out)
	}
	if !strings.Contains(out, "Report Summary") {
		t.Errorf("summary stays on stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "Writing records to") {
		t.Errorf("banner should name the output file:\n%s", errOut)
	}
}

func TestApplicationRun_OutputError(t *testing.T) {
	path := writeInput(t, fixtureLines...)

	// A file where a directory is needed makes the output path unusable.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing blocker file: %v", err)
	}

	code, _, errOut := runReportApp(t, context.Background(),
		"--no-color", "--output", filepath.Join(blocker, "report.txt"), path)

	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errOut, "cannot write output") {
		t.Errorf("error output should name the output failure:\n%s", errOut)
	}
}

func TestApplicationRun_Strict(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, _, _ := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--strict", path)

	if code != apperrors.ExitErrorParse {
		t.Errorf("exit code = %d, want %d for malformed input in strict mode", code, apperrors.ExitErrorParse)
	}
}

func TestApplicationRun_MissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.jsonl")
	code, _, errOut := runReportApp(t, context.Background(), "--no-color", path)

	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errOut, "cannot read input") {
		t.Errorf("error output should name the input failure:\n%s", errOut)
	}
}

func TestApplicationRun_Canceled(t *testing.T) {
	path := writeInput(t, fixtureLines...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code, _, errOut := runReportApp(t, ctx, "--no-color", path)

	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(errOut, "Report canceled.") {
		t.Errorf("error output should report the cancellation:\n%s", errOut)
	}
}

func TestApplicationRun_FollowTimeout(t *testing.T) {
	path := writeInput(t, fixtureLines...)
	code, out, errOut := runReportApp(t, context.Background(),
		"--format", "text", "--no-color", "--follow", "--timeout", "50ms", path)

	if code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(out, "SVC_TIMEOUT") {
		t.Errorf("records read before the deadline should be rendered:\n%s", out)
	}
	if !strings.Contains(errOut, "Report timed out.") {
		t.Errorf("error output should report the timeout:\n%s", errOut)
	}
}

func TestApplicationRun_Serve(t *testing.T) {
	path := writeInput(t, fixtureLines...)

	errBuf := &bytes.Buffer{}
	application, err := New([]string{
		"aglareport", "--serve", "--addr", "127.0.0.1:0",
		"--format", "text", "--no-color", path,
	}, errBuf)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		ui.SetTheme("dark")
	})

	ctx, cancel := context.WithCancel(context.Background())
	out := &bytes.Buffer{}
	done := make(chan int, 1)
	go func() {
		done <- application.Run(ctx, out)
	}()

	// Give the reader and server time to start, then stop serve mode.
	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case code := <-done:
		if code != apperrors.ExitSuccess {
			t.Errorf("exit code = %d, want %d for a cancelled serve run", code, apperrors.ExitSuccess)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve mode did not stop after cancel")
	}

	if !strings.Contains(out.String(), "SVC_TIMEOUT") {
		t.Errorf("serve mode still renders records:\n%s", out.String())
	}
}

func TestApplicationRun_Completion(t *testing.T) {
	code, out, errOut := runReportApp(t, context.Background(), "--completion", "bash")

	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
	if !strings.Contains(out, "complete -F _aglareport_completions aglareport") {
		t.Errorf("completion script missing the complete directive:\n%s", out)
	}
	if strings.Contains(errOut, "--- aglareport ---") {
		t.Errorf("completion mode should not print the banner:\n%s", errOut)
	}
}

func TestApplicationRun_VerboseLogsRecords(t *testing.T) {
	path := writeInput(t, `{"errorType":"SVC_TIMEOUT","message":"upstream timed out","severity":2,"code":"E1042"}`)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockLogger := mock_logging.NewMockLogger(ctrl)
	mockLogger.EXPECT().
		Record(aglaerror.SeverityError, "upstream timed out", gomock.Any()).
		Times(1)
	mockLogger.EXPECT().
		Debug("report pass finished", gomock.Any()).
		Times(1)

	errBuf := &bytes.Buffer{}
	application, err := New([]string{
		"aglareport", "--verbose", "--format", "text", "--no-color", path,
	}, errBuf, WithLogger(mockLogger))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		ui.SetTheme("dark")
	})

	if code := application.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
}

func TestCollectSink(t *testing.T) {
	sink := &collectSink{}

	if err := sink.HandleRecord(report.Record{ErrorType: "A"}); err != nil {
		t.Fatalf("HandleRecord() = %v", err)
	}
	if err := sink.HandleRecord(report.Record{ErrorType: "B"}); err != nil {
		t.Fatalf("HandleRecord() = %v", err)
	}
	sink.HandleMalformed(3, "junk", errors.New("bad"))

	if len(sink.records) != 2 {
		t.Fatalf("collected %d records, want 2", len(sink.records))
	}
	if sink.records[0].ErrorType != "A" || sink.records[1].ErrorType != "B" {
		t.Errorf("records out of order: %+v", sink.records)
	}
}

func TestFollowReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fr := &followReader{
		ctx:      ctx,
		r:        strings.NewReader("abc"),
		interval: 10 * time.Millisecond,
	}

	buf := make([]byte, 8)
	n, err := fr.Read(buf)
	if err != nil || n != 3 {
		t.Fatalf("Read() = %d, %v, want 3, nil", n, err)
	}

	// At end of input the reader polls instead of returning EOF.
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err = fr.Read(buf)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Read() after cancel = %v, want context.Canceled", err)
	}
}

func TestLifecycle_Timeout(t *testing.T) {
	application := &Application{}
	application.Config.Timeout = 20 * time.Millisecond

	ctx, teardown := application.lifecycle(context.Background())
	defer teardown()

	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
		}
	case <-time.After(time.Second):
		t.Error("configured timeout did not fire")
	}
}

func TestExitCode_Strict(t *testing.T) {
	tests := []struct {
		name      string
		strict    bool
		malformed int
		want      int
	}{
		{"clean run", false, 0, apperrors.ExitSuccess},
		{"malformed tolerated by default", false, 3, apperrors.ExitSuccess},
		{"strict clean run", true, 0, apperrors.ExitSuccess},
		{"strict with malformed", true, 1, apperrors.ExitErrorParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			application := &Application{}
			application.Config.Strict = tt.strict

			got := application.exitCode(report.Stats{Malformed: tt.malformed})
			if got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
