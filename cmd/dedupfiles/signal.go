package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler returns a channel that is closed on SIGINT or SIGTERM.
// The resolver stops between files and chunks once it is closed; files
// already deleted stay deleted.
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived signal: %v, stopping scan...\n", sig)
		close(shutdown)
		signal.Stop(sigChan)
	}()

	return shutdown
}
