// Package app wires the validated configuration to the sampling engine and
// maps every outcome to a process exit code.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/nwrenn/cpuwatch/internal/config"
	"github.com/nwrenn/cpuwatch/internal/engine"
	apperrors "github.com/nwrenn/cpuwatch/internal/errors"
	"github.com/nwrenn/cpuwatch/internal/logging"
	"github.com/nwrenn/cpuwatch/internal/proc"
	"github.com/nwrenn/cpuwatch/internal/sysinfo"
)

// Application represents one cpuwatch run.
type Application struct {
	Config      config.Config
	ProgramName string
	Source      engine.Source
	ErrWriter   io.Writer
	Logger      logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource sets a custom counter source for the application.
func WithSource(s engine.Source) AppOption {
	return func(a *Application) { a.Source = s }
}

// WithLogger sets a custom structured logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// The returned error is flag.ErrHelp when usage output was requested and a
// ConfigError when the command line was invalid; diagnostics and the usage
// block have already been written to errWriter in both cases.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Source == nil {
		app.Source = proc.NewUptimeSource()
	}
	if app.Logger == nil {
		app.Logger = logging.NewDefaultLogger("cpuwatch")
	}

	programName := "cpuwatch"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}
	app.ProgramName = programName

	cfg, err := config.ParseArgs(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the sampling loop until a fatal I/O error occurs or a
// termination signal arrives. A signal produces a graceful shutdown and a
// zero exit code; any sampling failure is immediately fatal.
func (a *Application) Run(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	a.checkCPUCount()

	sink := engine.FileSink{Path: a.Config.OutputPath}
	interval := time.Duration(a.Config.Interval * float64(time.Second))
	eng := engine.New(a.Source, sink, a.Config.CPUs, a.Config.Samples, interval,
		engine.WithLogger(a.Logger))

	if err := eng.Run(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "%s: %v\n", a.ProgramName, err)
		a.Logger.Error("sampling aborted", err)
		return apperrors.ExitErrorRuntime
	}
	return apperrors.ExitSuccess
}

// checkCPUCount compares the configured CPU count against the detected
// hardware. Detection is best effort; a mismatch only earns a warning since
// --cpus stays authoritative for the normalization.
func (a *Application) checkCPUCount() {
	detected, err := sysinfo.LogicalCPUs()
	if err != nil {
		a.Logger.Debug("cpu count detection failed", logging.Err(err))
		return
	}
	if detected != a.Config.CPUs {
		a.Logger.Warn("configured cpu count differs from detected hardware",
			logging.Int("configured", a.Config.CPUs),
			logging.Int("detected", detected))
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return config.IsHelp(err)
}
