package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/atsushifx/aglabo-error-core/internal/config"
	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

func withNoColor(t *testing.T) {
	t.Helper()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(ui.DarkTheme) })
}

func TestPrintReportBanner(t *testing.T) {
	withNoColor(t)

	cfg := config.DefaultConfig()
	cfg.Input = "errors.jsonl"
	cfg.MinSeverity = "ERROR"
	cfg.ErrorType = "SVC_TIMEOUT"

	var buf bytes.Buffer
	PrintReportBanner(cfg, &buf)
	out := buf.String()

	for _, want := range []string{
		"--- aglareport ---",
		"Reading errors.jsonl (format: pretty).",
		"Filters: min-severity=ERROR, error-type=SVC_TIMEOUT.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Serving") || strings.Contains(out, "Following") {
		t.Errorf("banner should not mention inactive modes:\n%s", out)
	}
}

func TestPrintReportBanner_StdinDefaults(t *testing.T) {
	withNoColor(t)

	var buf bytes.Buffer
	PrintReportBanner(config.DefaultConfig(), &buf)
	out := buf.String()

	if !strings.Contains(out, "Reading stdin (format: pretty).") {
		t.Errorf("banner should name stdin for the default input:\n%s", out)
	}
	if strings.Contains(out, "Filters:") {
		t.Errorf("banner should omit the filter line when no filter is active:\n%s", out)
	}
}

func TestPrintReportBanner_Modes(t *testing.T) {
	withNoColor(t)

	cfg := config.DefaultConfig()
	cfg.Input = "errors.jsonl"
	cfg.Output = "filtered.jsonl"
	cfg.Serve = true
	cfg.Addr = "127.0.0.1:9999"
	cfg.Follow = true

	var buf bytes.Buffer
	PrintReportBanner(cfg, &buf)
	out := buf.String()

	for _, want := range []string{
		"Writing records to filtered.jsonl.",
		"Serving health and metrics on 127.0.0.1:9999.",
		"Following input growth; interrupt to stop.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}
}
