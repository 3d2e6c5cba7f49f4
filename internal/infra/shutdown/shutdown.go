package shutdown

import (
	"os"
	"os/signal"
	"time"

	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// Process is the subset of *os.Process the relay signals.
type Process interface {
	Signal(os.Signal) error
}

// Relay forwards signals to a supervised process.
type Relay struct {
	grace   time.Duration
	signals []os.Signal
	source  <-chan os.Signal
	logger  logger.Logger
}

// Option configures a Relay.
type Option func(*Relay)

// WithSource reads signals from ch instead of subscribing to the process
// signals.
func WithSource(ch <-chan os.Signal) Option {
	return func(r *Relay) { r.source = ch }
}

// WithLogger sets the relay logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Relay) { r.logger = l }
}

// NewRelay creates a relay. A zero grace never escalates to a kill.
func NewRelay(grace time.Duration, opts ...Option) *Relay {
	r := &Relay{
		grace:   grace,
		signals: DefaultSignals(),
		logger:  logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run forwards signals to proc until exited is closed and returns the
// number of signals forwarded. The first terminating signal arms the
// grace timer; when it fires while proc is still running, proc is killed.
func (r *Relay) Run(proc Process, exited <-chan struct{}) int {
	source := r.source
	if source == nil {
		ch := make(chan os.Signal, len(r.signals)+1)
		signal.Notify(ch, r.signals...)
		defer signal.Stop(ch)
		source = ch
	}

	var (
		forwarded int
		deadline  <-chan time.Time
	)
	for {
		select {
		case <-exited:
			return forwarded

		case sig, ok := <-source:
			if !ok {
				source = nil
				continue
			}
			if err := proc.Signal(sig); err != nil {
				r.logger.Warn("forward signal", "signal", sig.String(), "error", err)
				continue
			}
			forwarded++
			r.logger.Info("forwarded signal to server", "signal", sig.String())

			if deadline == nil && r.grace > 0 && IsTerminating(sig) {
				timer := time.NewTimer(r.grace)
				defer timer.Stop()
				deadline = timer.C
			}

		case <-deadline:
			deadline = nil
			r.logger.Warn("server did not exit within grace period, killing", "grace", r.grace.String())
			if err := proc.Signal(os.Kill); err != nil {
				r.logger.Warn("kill server", "error", err)
			}
		}
	}
}
