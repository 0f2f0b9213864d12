package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"mediascan/internal/scanrun"
)

const (
	exitFailure = 1
	// exitLocked is EX_TEMPFAIL: another scan holds the lock.
	exitLocked = 75
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	err := cmd.Execute()
	return exitCode(err, stderr)
}

// exitCode reports err on stderr and maps it to the process exit status.
// Interrupted scans exit non-zero without a message.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, scanrun.ErrLocked):
		fmt.Fprintf(stderr, "mediascan: %v\n", err)
		return exitLocked
	case errors.Is(err, context.Canceled):
		return exitFailure
	default:
		fmt.Fprintf(stderr, "mediascan: %v\n", err)
		return exitFailure
	}
}
