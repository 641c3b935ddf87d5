// SPDX-License-Identifier: EPL-2.0

// Command rtsfx plays and renders the engine's sound effects.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rtsfx:", err)
		os.Exit(1)
	}
}
