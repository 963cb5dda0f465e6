package signal

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitInterrupted is the exit status used when a second interrupt arrives
// before the first one finished shutting down.
const ExitInterrupted = 130

// NotifyContext returns a context that is cancelled when SIGINT or SIGTERM is
// received. Cancelling stops a running compiler or database client. A second
// signal exits immediately. The returned stop function should be called to
// release resources.
func NotifyContext() (context.Context, context.CancelFunc) {
	return notify(context.Background(), func() { os.Exit(ExitInterrupted) }, os.Interrupt, syscall.SIGTERM)
}

func notify(parent context.Context, exit func(), sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			slog.Warn("interrupted, stopping", "signal", sig.String())
			cancel()
		case <-done:
			return
		}
		select {
		case <-ch:
			exit()
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
		cancel()
	}
	return ctx, stop
}
