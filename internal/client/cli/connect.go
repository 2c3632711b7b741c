package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/iudanet/sidenotes/internal/client/sidebar"
	"github.com/iudanet/sidenotes/pkg/api"
)

// Dial connects to the relay and waits for the first loaded event.
func Dial(ctx context.Context, settings Settings) (Session, func(), error) {
	logger := slog.New(slog.DiscardHandler)
	if settings.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	machine := sidebar.NewMachine(settings.Origin, sidebar.WithLogger(logger))
	client := sidebar.NewClient(settings.Server, machine,
		sidebar.WithToken(settings.Token),
		sidebar.WithClientLogger(logger),
	)

	loaded := make(chan struct{})
	var once sync.Once
	stopWaiting := client.Observe(func(ev api.Event) {
		if ev.Action == api.EventLoaded {
			once.Do(func() { close(loaded) })
		}
	})
	defer stopWaiting()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := client.Run(runCtx); err != nil && runCtx.Err() == nil {
			logger.Error("Relay client stopped", "error", err)
		}
	}()

	closeSession := func() {
		cancel()
		<-done
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	waitCtx, waitCancel := context.WithTimeout(ctx, timeout)
	defer waitCancel()

	select {
	case <-loaded:
		return client, closeSession, nil
	case <-waitCtx.Done():
		closeSession()
		return nil, nil, fmt.Errorf("failed to load notes from %s: %w", settings.Server, waitCtx.Err())
	}
}
