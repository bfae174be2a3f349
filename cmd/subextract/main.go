package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"subextract/internal/services"
)

const interruptedMessage = "Process interrupted by user"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command tree and maps the outcome to an exit status.
// A user interrupt is not a failure.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		fmt.Fprintln(stdout, interruptedMessage)
		return 0
	default:
		reportFailure(stderr, err)
		return 1
	}
}

func reportFailure(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	chain := services.Chain(err)
	if len(chain) <= 1 {
		return
	}
	fmt.Fprintln(w, "Trace:")
	for i, cause := range chain[1:] {
		fmt.Fprintf(w, "  %d. %s\n", i+1, cause)
	}
}
