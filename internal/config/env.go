// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the AGLA_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*ReportConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// String overrides
	{"FORMAT", []string{"format", "f"}, func(c *ReportConfig, v string) {
		c.Format = v
	}},
	{"MIN_SEVERITY", []string{"min-severity"}, func(c *ReportConfig, v string) {
		c.MinSeverity = v
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *ReportConfig, v string) {
		c.Output = v
	}},
	{"ERROR_TYPE", []string{"error-type"}, func(c *ReportConfig, v string) {
		c.ErrorType = v
	}},
	{"ADDR", []string{"addr"}, func(c *ReportConfig, v string) {
		c.Addr = v
	}},

	// Numeric overrides
	{"MAX_LINE_BYTES", []string{"max-line-bytes"}, func(c *ReportConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxLineBytes = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *ReportConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// Boolean overrides
	{"QUIET", []string{"quiet", "q"}, func(c *ReportConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *ReportConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"SUMMARY", []string{"summary"}, func(c *ReportConfig, v string) {
		c.Summary = parseBoolEnv(v, c.Summary)
	}},
	{"STRICT", []string{"strict"}, func(c *ReportConfig, v string) {
		c.Strict = parseBoolEnv(v, c.Strict)
	}},
	{"FOLLOW", []string{"follow"}, func(c *ReportConfig, v string) {
		c.Follow = parseBoolEnv(v, c.Follow)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *ReportConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"SERVE", []string{"serve"}, func(c *ReportConfig, v string) {
		c.Serve = parseBoolEnv(v, c.Serve)
	}},
	{"TUI", []string{"tui"}, func(c *ReportConfig, v string) {
		c.TUI = parseBoolEnv(v, c.TUI)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with AGLA_):
//   - FORMAT, OUTPUT, MIN_SEVERITY, ERROR_TYPE, ADDR, MAX_LINE_BYTES,
//     TIMEOUT, QUIET, VERBOSE, SUMMARY, STRICT, FOLLOW, NO_COLOR, SERVE, TUI
func applyEnvOverrides(config *ReportConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
