// Package config handles command-line and environment configuration for the
// error report reader.
//
// Configuration values are resolved with the following priority:
//  1. CLI flags (--format, --min-severity, ...)
//  2. Environment variables (AGLA_FORMAT, AGLA_MIN_SEVERITY, ...)
//  3. Built-in defaults
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	apperrors "github.com/atsushifx/aglabo-error-core/internal/errors"
)

// EnvPrefix is the prefix shared by all environment variables recognized by
// the application.
const EnvPrefix = "AGLA_"

// Default configuration values.
const (
	DefaultInput        = "-"
	DefaultFormat       = "pretty"
	DefaultAddr         = ":8080"
	DefaultMaxLineBytes = 1 << 20
)

// ValidFormats lists the accepted values for the --format flag.
var ValidFormats = []string{"pretty", "text", "json"}

// ValidShells lists the accepted values for the --completion flag.
var ValidShells = []string{"bash", "zsh", "fish", "powershell"}

// severityLevels maps canonical severity names to their core values.
var severityLevels = map[string]aglaerror.Severity{
	"FATAL":   aglaerror.SeverityFatal,
	"ERROR":   aglaerror.SeverityError,
	"WARNING": aglaerror.SeverityWarning,
	"INFO":    aglaerror.SeverityInfo,
}

// ReportConfig holds the complete runtime configuration of the reporter.
type ReportConfig struct {
	// Input is the record source: a file path, or "-" for stdin.
	Input string
	// Format selects the rendering of matched records (pretty, text or json).
	Format string
	// Output, when non-empty, redirects rendered records to this file.
	Output string
	// MinSeverity, when non-empty, drops records less severe than this level.
	MinSeverity string
	// ErrorType, when non-empty, keeps only records with this exact errorType.
	ErrorType string
	// Timeout bounds the whole run; zero means no limit.
	Timeout time.Duration
	// MaxLineBytes caps the size of a single input line.
	MaxLineBytes int
	// Addr is the listen address used by serve mode.
	Addr string
	// Completion, when non-empty, selects the shell to emit a completion
	// script for instead of running a report.
	Completion string

	Quiet   bool
	Verbose bool
	Summary bool
	Strict  bool
	Follow  bool
	NoColor bool
	Serve   bool
	TUI     bool
}

// DefaultConfig returns the configuration used when no flags and no
// environment variables are present.
func DefaultConfig() ReportConfig {
	return ReportConfig{
		Input:        DefaultInput,
		Format:       DefaultFormat,
		Addr:         DefaultAddr,
		MaxLineBytes: DefaultMaxLineBytes,
	}
}

// MinSeverityLevel returns the configured severity floor, or zero when no
// severity filter is active.
func (c ReportConfig) MinSeverityLevel() aglaerror.Severity {
	return severityLevels[c.MinSeverity]
}

// ParseConfig parses command-line arguments into a ReportConfig, applying
// environment variable overrides for flags that were not set explicitly.
// Usage and flag errors are written to errWriter. A --help request surfaces
// as flag.ErrHelp.
func ParseConfig(progName string, args []string, errWriter io.Writer) (ReportConfig, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: pretty, text or json")
	fs.StringVar(&cfg.Format, "f", cfg.Format, "output format (shorthand)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "write rendered records to this file instead of stdout")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "output file (shorthand)")
	fs.StringVar(&cfg.MinSeverity, "min-severity", cfg.MinSeverity, "drop records less severe than this level (FATAL, ERROR, WARNING, INFO)")
	fs.StringVar(&cfg.ErrorType, "error-type", cfg.ErrorType, "keep only records with this errorType")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for --serve")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "abort the run after this duration (0 = no limit)")
	fs.IntVar(&cfg.MaxLineBytes, "max-line-bytes", cfg.MaxLineBytes, "maximum size of a single input line")
	fs.StringVar(&cfg.Completion, "completion", cfg.Completion, "print a completion script for the given shell (bash, zsh, fish, powershell) and exit")

	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress banner and summary output")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "suppress banner and summary output (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "re-emit each record through the structured logger")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output (shorthand)")
	fs.BoolVar(&cfg.Summary, "summary", cfg.Summary, "print per-severity totals after the stream ends")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail the run when the input contains malformed lines")
	fs.BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading as the input grows (like tail -f)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "expose health and metrics endpoints while reading")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "browse records in an interactive terminal UI")

	fs.Usage = func() { printUsage(fs, progName) }

	if err := fs.Parse(args); err != nil {
		return ReportConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	switch fs.NArg() {
	case 0:
		// The input path is positional, so it bypasses the override table.
		if cfg.Input == DefaultInput {
			if val := os.Getenv(EnvPrefix + "INPUT"); val != "" {
				cfg.Input = val
			}
		}
	case 1:
		cfg.Input = fs.Arg(0)
	default:
		return ReportConfig{}, apperrors.NewConfigError("expected at most one input path, got %d", fs.NArg())
	}

	cfg = normalize(cfg)

	if err := validate(cfg); err != nil {
		return ReportConfig{}, err
	}
	return cfg, nil
}

// normalize canonicalizes values after all sources have been applied and
// fills in zero values that depend on other settings.
func normalize(cfg ReportConfig) ReportConfig {
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.MinSeverity = strings.ToUpper(strings.TrimSpace(cfg.MinSeverity))
	cfg.Completion = strings.ToLower(strings.TrimSpace(cfg.Completion))
	if cfg.Completion == "ps" {
		cfg.Completion = "powershell"
	}
	if cfg.Serve && cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = DefaultMaxLineBytes
	}
	return cfg
}

// validate rejects configurations the application cannot run with.
func validate(cfg ReportConfig) error {
	if !slices.Contains(ValidFormats, cfg.Format) {
		return apperrors.NewConfigError("invalid value %q for flag --format (valid: %s)",
			cfg.Format, strings.Join(ValidFormats, ", "))
	}
	if cfg.MinSeverity != "" {
		if _, ok := severityLevels[cfg.MinSeverity]; !ok {
			return apperrors.NewConfigError("invalid value %q for flag --min-severity (valid: FATAL, ERROR, WARNING, INFO)",
				cfg.MinSeverity)
		}
	}
	if cfg.Timeout < 0 {
		return apperrors.NewConfigError("invalid value %s for flag --timeout: must not be negative", cfg.Timeout)
	}
	if cfg.Completion != "" && !slices.Contains(ValidShells, cfg.Completion) {
		return apperrors.NewConfigError("invalid value %q for flag --completion (valid: %s)",
			cfg.Completion, strings.Join(ValidShells, ", "))
	}
	if cfg.Serve && cfg.TUI {
		return apperrors.NewConfigError("--serve and --tui are mutually exclusive")
	}
	if cfg.TUI && cfg.Input == DefaultInput {
		return apperrors.NewConfigError("--tui requires a file input, not stdin")
	}
	if cfg.TUI && cfg.Output != "" {
		return apperrors.NewConfigError("--tui and --output are mutually exclusive")
	}
	return nil
}

// printUsage writes the full usage text, grouping flags by concern.
func printUsage(fs *flag.FlagSet, progName string) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [input]\n\n", progName)
	fmt.Fprintf(out, "Reads a stream of structured error records (one JSON object per line)\n")
	fmt.Fprintf(out, "and renders, filters and summarizes them.\n\n")
	fmt.Fprintf(out, "The input is a file path, or \"-\" for stdin (the default).\n\n")
	fmt.Fprintf(out, "Flags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nEnvironment variables (overridden by flags): %sINPUT, %sFORMAT,\n", EnvPrefix, EnvPrefix)
	fmt.Fprintf(out, "%sMIN_SEVERITY, %sERROR_TYPE, %sQUIET, %sVERBOSE and friends.\n", EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
}
