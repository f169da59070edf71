package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/repoup/cmd/cli"
	"github.com/temirov/repoup/internal/update"
)

const (
	exitErrorTemplateConstant = "%v\n"
	successExitCodeConstant   = 0
	failureExitCodeConstant   = 1
	interruptExitCodeConstant = 130
)

// main executes the repoup command-line application and maps errors to process exit codes.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		os.Exit(successExitCodeConstant)
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	if errors.Is(executionError, update.ErrInterrupted) {
		os.Exit(interruptExitCodeConstant)
	}

	os.Exit(failureExitCodeConstant)
}
