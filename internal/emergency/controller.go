// Package emergency implements a stop-file and signal-driven cancellation
// controller built around a context.Context: a shard observes ctx.Err()
// between subscribers and stops cleanly, never mid-event.
package emergency

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jihwankim/cdrgen/internal/logging"
)

// Config configures a Controller.
type Config struct {
	// StopFile, if non-empty, is polled for existence; its appearance
	// cancels the returned context.
	StopFile string
	// PollInterval between stop-file checks. Defaults to 1 second.
	PollInterval time.Duration
}

// Controller watches an optional stop file and SIGINT/SIGTERM, exposing a
// single context.Context that becomes Done on either trigger.
type Controller struct {
	cfg    Config
	log    *logging.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Controller derived from parent. Call Start to begin
// watching; the returned Context is always valid even before Start.
func New(parent context.Context, cfg Config, log *logging.Logger) *Controller {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	ctx, cancel := context.WithCancel(parent)
	return &Controller{cfg: cfg, log: log, ctx: ctx, cancel: cancel}
}

// Context returns the context shards should observe between subscribers.
func (c *Controller) Context() context.Context { return c.ctx }

// Start begins watching for the stop file and OS signals in the
// background. It returns immediately; cancellation happens asynchronously.
func (c *Controller) Start() {
	go c.watchSignals()
	if c.cfg.StopFile != "" {
		go c.watchStopFile()
	}
}

// Stop cancels the controller's context directly, e.g. for tests or a
// caller that wants to force shutdown without a signal or stop file.
func (c *Controller) Stop() { c.cancel() }

func (c *Controller) watchStopFile() {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if _, err := os.Stat(c.cfg.StopFile); err == nil {
				c.log.Warn("emergency stop file detected", "path", c.cfg.StopFile)
				c.cancel()
				return
			}
		}
	}
}

func (c *Controller) watchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-c.ctx.Done():
		return
	case sig := <-sigCh:
		c.log.Warn("emergency stop signal received", "signal", sig.String())
		c.cancel()
	}
}
