package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	apperrors "github.com/atsushifx/aglabo-error-core/internal/errors"
)

// Sink receives parse results in input order.
type Sink interface {
	// HandleRecord processes one well-formed record. Returning an error
	// aborts the stream.
	HandleRecord(rec Record) error
	// HandleMalformed is informed of a line that could not be parsed.
	HandleMalformed(lineNo int, raw string, err error)
}

// MultiSink fans every event out to each sink in order.
type MultiSink []Sink

// HandleRecord forwards the record to each sink, stopping at the first error.
func (m MultiSink) HandleRecord(rec Record) error {
	for _, s := range m {
		if err := s.HandleRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

// HandleMalformed forwards the malformed line to each sink.
func (m MultiSink) HandleMalformed(lineNo int, raw string, err error) {
	for _, s := range m {
		s.HandleMalformed(lineNo, raw, err)
	}
}

// FilteredSink drops records that do not match the filter before they reach
// the next sink. Malformed lines always pass through.
type FilteredSink struct {
	Filter Filter
	Next   Sink
}

// HandleRecord forwards matching records to the wrapped sink.
func (f FilteredSink) HandleRecord(rec Record) error {
	if !f.Filter.Match(rec) {
		return nil
	}
	return f.Next.HandleRecord(rec)
}

// HandleMalformed forwards the malformed line to the wrapped sink.
func (f FilteredSink) HandleMalformed(lineNo int, raw string, err error) {
	f.Next.HandleMalformed(lineNo, raw, err)
}

// Stats summarizes one pass over an input stream.
type Stats struct {
	// Lines is the number of non-blank input lines seen.
	Lines int
	// Records is the number of lines parsed into records.
	Records int
	// Malformed is the number of lines rejected by the parser.
	Malformed int
}

// recordJSON is the decoding shape of one input line. ErrorType and Message
// are pointers so that absence can be told apart from the empty string.
type recordJSON struct {
	ErrorType *string           `json:"errorType"`
	Message   *string           `json:"message"`
	Code      string            `json:"code"`
	Severity  any               `json:"severity"`
	Timestamp any               `json:"timestamp"`
	Context   aglaerror.Context `json:"context"`
}

// ParseLine parses a single input line into a Record.
func ParseLine(line string, lineNo int) (Record, error) {
	var decoded recordJSON
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		return Record{}, apperrors.ParseError{Line: lineNo, Cause: err}
	}
	if decoded.ErrorType == nil {
		return Record{}, apperrors.ParseError{Line: lineNo, Cause: fmt.Errorf("missing errorType")}
	}
	if decoded.Message == nil {
		return Record{}, apperrors.ParseError{Line: lineNo, Cause: fmt.Errorf("missing message")}
	}
	return Record{
		ErrorType: *decoded.ErrorType,
		Message:   *decoded.Message,
		Code:      decoded.Code,
		Severity:  decoded.Severity,
		Timestamp: decoded.Timestamp,
		Context:   decoded.Context,
		Line:      lineNo,
		Raw:       line,
	}, nil
}

// ParseStream reads JSON lines from r until EOF, feeding each result to the
// sink. Blank lines are skipped. The context is checked between lines so a
// cancellation aborts promptly even on an endless input.
//
// A malformed line is reported to the sink and counted, but does not stop
// the stream. Scanner failures (including a line exceeding maxLineBytes) do,
// because the reader cannot resynchronize after them.
func ParseStream(ctx context.Context, r io.Reader, maxLineBytes int, sink Sink) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++

		rec, err := ParseLine(line, lineNo)
		if err != nil {
			stats.Malformed++
			sink.HandleMalformed(lineNo, line, err)
			continue
		}

		stats.Records++
		if err := sink.HandleRecord(rec); err != nil {
			return stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, apperrors.WrapError(err, "reading input at line %d", lineNo+1)
	}
	return stats, nil
}
