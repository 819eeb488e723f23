package cli

import (
	"context"
	"os/signal"
	"syscall"
)

// signalContext returns a context canceled on SIGINT/SIGTERM. A SIGINT
// mid-build propagates into the currently running container child (spec
// §5: "a SIGINT to the engine kills the current container child").
func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}
