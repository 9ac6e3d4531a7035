package runtime

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"
)

func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Closer is a named shutdown step.
type Closer struct {
	Name  string
	Close func(context.Context) error
}

// Shutdown runs closers in order under one deadline. Every closer runs even
// if an earlier one fails; failures are logged and joined.
func Shutdown(logger *slog.Logger, timeout time.Duration, closers ...Closer) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, c := range closers {
		if c.Close == nil {
			continue
		}
		if err := c.Close(ctx); err != nil {
			logger.Error("shutdown step failed", "step", c.Name, "err", err)
			errs = append(errs, err)
			continue
		}
		logger.Info("shutdown step done", "step", c.Name)
	}
	return errors.Join(errs...)
}
