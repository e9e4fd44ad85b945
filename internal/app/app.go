package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/atsushifx/aglabo-error-core/internal/config"
	"github.com/atsushifx/aglabo-error-core/internal/logging"
	"github.com/atsushifx/aglabo-error-core/internal/ui"
)

// Application represents the aglareport application instance.
type Application struct {
	Config    config.ReportConfig
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets a custom logger for the application.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "aglareport"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		app.Logger = logging.NewLogger(errWriter, "aglareport")
	}
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	// Completion generation touches no input and needs no lifecycle.
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ctx, teardown := a.lifecycle(ctx)
	defer teardown()

	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	if a.Config.Serve {
		return a.runServe(ctx, out)
	}
	return a.runReport(ctx, out)
}

// lifecycle applies the configured timeout and signal handling to ctx.
// The returned function releases both in reverse order.
func (a *Application) lifecycle(ctx context.Context) (context.Context, func()) {
	cancels := make([]context.CancelFunc, 0, 2)

	if a.Config.Timeout > 0 {
		c, cancel := context.WithTimeout(ctx, a.Config.Timeout)
		ctx = c
		cancels = append(cancels, cancel)
	}

	c, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	ctx = c
	cancels = append(cancels, stop)

	return ctx, func() {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
