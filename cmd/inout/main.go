package main

import (
	"fmt"
	"os"

	"inout-engine/cmd/inout/cmd"

	pkgerrors "inout-engine/pkg/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		if engineErr, ok := pkgerrors.AsEngineError(err); ok {
			fmt.Fprintln(os.Stderr, pkgerrors.FormatForUser(engineErr))
			os.Exit(engineErr.GetExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
