package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/kaltura/kal-metadata-utils/internal/cli"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(kmeta.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(kmeta.ExitCodeForError(err))
	}
}
