package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Recommendations produced
	ExitNoFit   = 1 // No box/strategy combination fits the item
	ExitError   = 2 // Configuration or runtime error
)

// NoFitError indicates the engine ran successfully but no box/strategy
// combination fits the requested item at the requested packing level.
type NoFitError struct {
	Message string
}

func (e *NoFitError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var noFitErr *NoFitError
		if errors.As(err, &noFitErr) {
			os.Exit(ExitNoFit)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
