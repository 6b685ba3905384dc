package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
)

// ErrNonPositiveStepLimit is returned by Run when the caller passes a step
// limit of zero or less. A missing limit is a caller bug, not a request for
// a default.
var ErrNonPositiveStepLimit = errors.New("step limit must be positive")

// FaultKind classifies a contained dispatch fault.
type FaultKind string

const (
	// FaultUnknownReceiver records an envelope addressed to an unregistered name.
	FaultUnknownReceiver FaultKind = "unknown_receiver"
	// FaultHandlerFailure records a handler that returned an error.
	FaultHandlerFailure FaultKind = "handler_failure"
)

// Fault describes one contained dispatch failure.
type Fault struct {
	Kind       FaultKind
	EnvelopeID string
	Receiver   string
	SessionID  string
	Err        error
}

// Report summarizes one Run invocation.
type Report struct {
	// Steps is the number of dispatch steps consumed, recycles included.
	Steps int
	// Delivered is the number of envelopes handed to a handler.
	Delivered int
	// Recycled is the number of steps spent rotating foreign-session
	// envelopes to the tail.
	Recycled int
	// Faults lists contained failures in the order they occurred.
	Faults []Fault
	// LimitReached is true when Run stopped because the step limit was hit
	// while deliverable work may still remain queued.
	LimitReached bool
}

// Options configures a Bus.
type Options struct {
	// Logger receives dispatch telemetry. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Bus is the dispatch kernel: a FIFO queue plus a registry of named agents.
// All methods are safe for concurrent use; Run itself is single-threaded
// and delivers at most one envelope at a time.
type Bus struct {
	logger logging.Logger

	mu     sync.RWMutex
	agents map[string]core.Agent

	qmu   sync.Mutex
	queue []core.Envelope
}

// New constructs an empty Bus.
func New(optFns ...func(o *Options)) *Bus {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Bus{
		logger: opts.Logger,
		agents: make(map[string]core.Agent),
	}
}

// Register binds an agent under its name. Rebinding an existing name is
// last-write-wins; the replacement is logged so silent shadowing in tests
// and wiring code is visible.
func (b *Bus) Register(a core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.agents[a.Name()]; exists {
		b.logger.Warn("replacing registered agent", "agent", a.Name())
	}
	b.agents[a.Name()] = a
}

// Agent returns the registered agent for name.
func (b *Bus) Agent(name string) (core.Agent, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.agents[name]
	return a, ok
}

// Send enqueues an envelope at the tail of the queue. It never blocks and
// may be called from inside a handler.
func (b *Bus) Send(env core.Envelope) {
	b.qmu.Lock()
	b.queue = append(b.queue, env)
	b.qmu.Unlock()
}

// QueueLen reports the number of queued envelopes.
func (b *Bus) QueueLen() int {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	return len(b.queue)
}

// Run dispatches queued envelopes until the queue holds no deliverable work
// or stepLimit steps have been consumed. Every step costs one unit: a
// delivery, a contained fault, or the recycling of an envelope whose session
// does not match sessionFilter. An empty sessionFilter delivers everything.
//
// Foreign-session envelopes are moved to the tail rather than dropped, so a
// later Run with a different filter still finds them in FIFO order. When
// every remaining envelope is foreign the loop returns instead of spinning.
//
// Handler errors and unknown receivers never propagate out of Run; they are
// recorded as faults in the report. The only error returns are a
// non-positive stepLimit and ctx cancellation, the latter with the partial
// report of the steps completed before the cancel.
func (b *Bus) Run(ctx context.Context, sessionFilter string, stepLimit int) (Report, error) {
	if stepLimit <= 0 {
		return Report{}, ErrNonPositiveStepLimit
	}

	var report Report
	consecutiveRecycles := 0

	for report.Steps < stepLimit {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		env, queued, ok := b.pop()
		if !ok {
			return report, nil
		}

		// All queued envelopes were inspected without a single match:
		// nothing left is deliverable under this filter.
		if sessionFilter != "" && consecutiveRecycles >= queued {
			b.requeueFront(env)
			return report, nil
		}

		report.Steps++

		if sessionFilter != "" && env.SessionID != sessionFilter {
			b.Send(env)
			report.Recycled++
			consecutiveRecycles++
			continue
		}
		consecutiveRecycles = 0

		agent, ok := b.Agent(env.Receiver)
		if !ok {
			err := &core.UnknownReceiverError{Receiver: env.Receiver, EnvelopeID: env.ID}
			b.logger.Warn("dropping envelope for unknown receiver",
				"receiver", env.Receiver, "envelope_id", env.ID, "session_id", env.SessionID)
			report.Faults = append(report.Faults, Fault{
				Kind:       FaultUnknownReceiver,
				EnvelopeID: env.ID,
				Receiver:   env.Receiver,
				SessionID:  env.SessionID,
				Err:        err,
			})
			continue
		}

		b.logger.Debug("dispatching envelope",
			"receiver", env.Receiver, "kind", string(env.Kind),
			"envelope_id", env.ID, "session_id", env.SessionID)

		if err := agent.Handle(ctx, env, b); err != nil {
			b.logger.Error("handler failed",
				"agent", env.Receiver, "kind", string(env.Kind),
				"envelope_id", env.ID, "session_id", env.SessionID, "error", err)
			report.Faults = append(report.Faults, Fault{
				Kind:       FaultHandlerFailure,
				EnvelopeID: env.ID,
				Receiver:   env.Receiver,
				SessionID:  env.SessionID,
				Err:        err,
			})
			continue
		}

		report.Delivered++
	}

	b.qmu.Lock()
	remaining := len(b.queue)
	b.qmu.Unlock()
	report.LimitReached = remaining > 0

	return report, nil
}

// pop removes and returns the head of the queue along with the queue length
// observed before removal.
func (b *Bus) pop() (core.Envelope, int, bool) {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	if len(b.queue) == 0 {
		return core.Envelope{}, 0, false
	}
	env := b.queue[0]
	queued := len(b.queue)
	b.queue = b.queue[1:]
	return env, queued, true
}

// requeueFront restores an envelope to the head of the queue, preserving the
// FIFO order observed before it was popped.
func (b *Bus) requeueFront(env core.Envelope) {
	b.qmu.Lock()
	b.queue = append([]core.Envelope{env}, b.queue...)
	b.qmu.Unlock()
}

var _ core.Outbox = (*Bus)(nil)
