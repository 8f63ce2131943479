package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/restic/xattrctl/internal/debug"
)

func createGlobalContext(gopts *GlobalOptions) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	go cleanupHandler(ch, cancel, gopts)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	return ctx
}

// cleanupHandler cancels the global context on SIGINT and SIGTERM. Commands
// stop before the next path, a running syscall is never interrupted.
func cleanupHandler(c <-chan os.Signal, cancel context.CancelFunc, gopts *GlobalOptions) {
	s := <-c
	debug.Log("signal %v received, cleaning up", s)
	gopts.Warnf("signal %v received, cleaning up\n", s)

	if val, _ := os.LookupEnv("XATTRCTL_DEBUG_STACKTRACE_SIGINT"); val != "" {
		_, _ = os.Stderr.WriteString("\n--- STACKTRACE START ---\n\n")
		_, _ = os.Stderr.WriteString(debug.DumpStacktrace())
		_, _ = os.Stderr.WriteString("\n--- STACKTRACE END ---\n")
	}

	cancel()
}

// Exit terminates the process with the given exit code.
func Exit(code int) {
	debug.Log("exiting with status code %d", code)
	os.Exit(code)
}
