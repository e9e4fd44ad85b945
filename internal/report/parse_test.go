package report

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	apperrors "github.com/atsushifx/aglabo-error-core/internal/errors"
)

// collectSink accumulates everything it receives, optionally failing once a
// record quota is reached.
type collectSink struct {
	records   []Record
	malformed []int
	failAfter int
}

func (c *collectSink) HandleRecord(rec Record) error {
	c.records = append(c.records, rec)
	if c.failAfter > 0 && len(c.records) >= c.failAfter {
		return errors.New("sink full")
	}
	return nil
}

func (c *collectSink) HandleMalformed(lineNo int, raw string, err error) {
	c.malformed = append(c.malformed, lineNo)
}

var (
	_ Sink = (*collectSink)(nil)
	_ Sink = (*Summary)(nil)
	_ Sink = MultiSink(nil)
	_ Sink = FilteredSink{}
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	t.Run("full record", func(t *testing.T) {
		t.Parallel()
		line := `{"errorType":"IO_ERR","message":"read failed","code":"E1042","severity":3,"timestamp":"2025-01-02T03:04:05Z","context":{"path":"/tmp/x"}}`

		rec, err := ParseLine(line, 7)
		if err != nil {
			t.Fatalf("ParseLine returned error: %v", err)
		}
		if rec.ErrorType != "IO_ERR" || rec.Message != "read failed" || rec.Code != "E1042" {
			t.Errorf("identity fields: %+v", rec)
		}
		if rec.SeverityLevel() != aglaerror.SeverityWarning {
			t.Errorf("SeverityLevel() = %v, want %v", rec.SeverityLevel(), aglaerror.SeverityWarning)
		}
		if rec.Context["path"] != "/tmp/x" {
			t.Errorf("Context = %v", rec.Context)
		}
		if rec.Line != 7 {
			t.Errorf("Line = %d, want 7", rec.Line)
		}
		if rec.Raw != line {
			t.Errorf("Raw should preserve the input line")
		}
	})

	t.Run("minimal record", func(t *testing.T) {
		t.Parallel()
		rec, err := ParseLine(`{"errorType":"X","message":"y"}`, 1)
		if err != nil {
			t.Fatalf("ParseLine returned error: %v", err)
		}
		if rec.Severity != nil || rec.Timestamp != nil || rec.Context != nil {
			t.Errorf("optional fields should stay nil: %+v", rec)
		}
	})

	t.Run("empty strings are present, not missing", func(t *testing.T) {
		t.Parallel()
		rec, err := ParseLine(`{"errorType":"","message":""}`, 1)
		if err != nil {
			t.Fatalf("ParseLine returned error: %v", err)
		}
		if rec.ErrorType != "" || rec.Message != "" {
			t.Errorf("fields should be empty strings: %+v", rec)
		}
	})

	t.Run("foreign severity survives verbatim", func(t *testing.T) {
		t.Parallel()
		rec, err := ParseLine(`{"errorType":"X","message":"y","severity":"loud"}`, 1)
		if err != nil {
			t.Fatalf("ParseLine returned error: %v", err)
		}
		if rec.Severity != "loud" {
			t.Errorf("Severity = %v, want the raw string", rec.Severity)
		}
		if rec.SeverityLevel() != 0 {
			t.Errorf("SeverityLevel() = %v, want 0", rec.SeverityLevel())
		}
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseLine(`{"errorType":"X","message":"y","name":"AglaError","stack":"..."}`, 1); err != nil {
			t.Fatalf("ParseLine returned error: %v", err)
		}
	})

	rejections := []struct {
		name string
		line string
		want string
	}{
		{"not JSON", `nope`, "invalid character"},
		{"JSON array", `[1,2,3]`, "cannot unmarshal"},
		{"JSON scalar", `42`, "cannot unmarshal"},
		{"missing errorType", `{"message":"y"}`, "missing errorType"},
		{"missing message", `{"errorType":"X"}`, "missing message"},
		{"non-string errorType", `{"errorType":5,"message":"y"}`, "cannot unmarshal"},
		{"non-object context", `{"errorType":"X","message":"y","context":5}`, "cannot unmarshal"},
	}

	for _, tt := range rejections {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseLine(tt.line, 3)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			var parseErr apperrors.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if parseErr.Line != 3 {
				t.Errorf("Line = %d, want 3", parseErr.Line)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseStream(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		`{"errorType":"A","message":"first"}`,
		``,
		`not json`,
		`{"errorType":"B","message":"second","severity":2}`,
		`   `,
		`{"message":"no type"}`,
	}, "\n") + "\n"

	sink := &collectSink{}
	stats, err := ParseStream(context.Background(), strings.NewReader(input), 1<<20, sink)
	if err != nil {
		t.Fatalf("ParseStream returned error: %v", err)
	}

	if stats.Lines != 4 {
		t.Errorf("Lines = %d, want 4 (blank lines skipped)", stats.Lines)
	}
	if stats.Records != 2 || stats.Malformed != 2 {
		t.Errorf("Records/Malformed = %d/%d, want 2/2", stats.Records, stats.Malformed)
	}

	if len(sink.records) != 2 {
		t.Fatalf("sink received %d records, want 2", len(sink.records))
	}
	if sink.records[0].Message != "first" || sink.records[1].Message != "second" {
		t.Errorf("records out of order: %+v", sink.records)
	}
	if sink.records[0].Line != 1 || sink.records[1].Line != 4 {
		t.Errorf("line numbers = %d/%d, want 1/4 (physical numbering)", sink.records[0].Line, sink.records[1].Line)
	}
	if len(sink.malformed) != 2 || sink.malformed[0] != 3 || sink.malformed[1] != 6 {
		t.Errorf("malformed lines = %v, want [3 6]", sink.malformed)
	}
}

func TestParseStream_NoTrailingNewline(t *testing.T) {
	t.Parallel()
	sink := &collectSink{}
	stats, err := ParseStream(context.Background(),
		strings.NewReader(`{"errorType":"A","message":"only"}`), 1<<20, sink)
	if err != nil {
		t.Fatalf("ParseStream returned error: %v", err)
	}
	if stats.Records != 1 {
		t.Errorf("Records = %d, want 1", stats.Records)
	}
}

func TestParseStream_SinkAbort(t *testing.T) {
	t.Parallel()
	input := `{"errorType":"A","message":"1"}` + "\n" + `{"errorType":"A","message":"2"}` + "\n"

	sink := &collectSink{failAfter: 1}
	stats, err := ParseStream(context.Background(), strings.NewReader(input), 1<<20, sink)
	if err == nil || err.Error() != "sink full" {
		t.Fatalf("expected sink error, got %v", err)
	}
	if stats.Records != 1 {
		t.Errorf("Records = %d, want 1 (stream aborted)", stats.Records)
	}
}

func TestParseStream_ContextCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &collectSink{}
	_, err := ParseStream(ctx, strings.NewReader(`{"errorType":"A","message":"1"}`+"\n"), 1<<20, sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("no record should be delivered after cancellation")
	}
}

func TestParseStream_LineTooLong(t *testing.T) {
	t.Parallel()
	long := `{"errorType":"A","message":"` + strings.Repeat("x", 500) + `"}`

	sink := &collectSink{}
	_, err := ParseStream(context.Background(), strings.NewReader(long+"\n"), 64, sink)
	if !errors.Is(err, bufio.ErrTooLong) {
		t.Fatalf("expected bufio.ErrTooLong in the chain, got %v", err)
	}
}

func TestMultiSink(t *testing.T) {
	t.Parallel()

	t.Run("fans out to every sink in order", func(t *testing.T) {
		t.Parallel()
		first, second := &collectSink{}, &collectSink{}
		multi := MultiSink{first, second}

		rec := Record{ErrorType: "A", Message: "m"}
		if err := multi.HandleRecord(rec); err != nil {
			t.Fatalf("HandleRecord returned error: %v", err)
		}
		multi.HandleMalformed(9, "raw", errors.New("bad"))

		if len(first.records) != 1 || len(second.records) != 1 {
			t.Error("both sinks should receive the record")
		}
		if len(first.malformed) != 1 || len(second.malformed) != 1 {
			t.Error("both sinks should receive the malformed report")
		}
	})

	t.Run("first error stops the fan-out", func(t *testing.T) {
		t.Parallel()
		failing := &collectSink{failAfter: 1}
		after := &collectSink{}
		multi := MultiSink{failing, after}

		if err := multi.HandleRecord(Record{ErrorType: "A", Message: "m"}); err == nil {
			t.Fatal("expected the sink error to propagate")
		}
		if len(after.records) != 0 {
			t.Error("sinks after the failing one should not receive the record")
		}
	})
}

func TestFilteredSink(t *testing.T) {
	t.Parallel()
	inner := &collectSink{}
	filtered := FilteredSink{
		Filter: Filter{MinSeverity: aglaerror.SeverityError},
		Next:   inner,
	}

	records := []Record{
		{ErrorType: "A", Message: "fatal", Severity: float64(1)},
		{ErrorType: "A", Message: "error", Severity: float64(2)},
		{ErrorType: "A", Message: "warning", Severity: float64(3)},
		{ErrorType: "A", Message: "unranked"},
	}
	for _, rec := range records {
		if err := filtered.HandleRecord(rec); err != nil {
			t.Fatalf("HandleRecord returned error: %v", err)
		}
	}
	filtered.HandleMalformed(2, "raw", errors.New("bad"))

	if len(inner.records) != 2 {
		t.Fatalf("inner sink received %d records, want 2", len(inner.records))
	}
	if inner.records[0].Message != "fatal" || inner.records[1].Message != "error" {
		t.Errorf("wrong records passed the filter: %+v", inner.records)
	}
	if len(inner.malformed) != 1 {
		t.Error("malformed lines must bypass the filter")
	}
}
