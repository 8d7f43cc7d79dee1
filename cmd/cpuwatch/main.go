package main

import (
	"context"
	"os"

	"github.com/nwrenn/cpuwatch/internal/app"
	apperrors "github.com/nwrenn/cpuwatch/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		// Help and an invalid command line share the exit status; the
		// distinguishing signal is the text already written to stderr.
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background()))
}
