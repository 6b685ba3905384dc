package core

import "context"

// Outbox is the only channel an agent has back into the pipeline. It is the
// narrow waist between stage logic and the dispatch kernel: agents never see
// the queue, the registry or other agents.
type Outbox interface {
	// Send enqueues an envelope for later dispatch. It never blocks.
	Send(env Envelope)
}

// Agent is a pipeline stage. Handle is invoked once per delivered envelope;
// returned errors are recorded by the kernel as handler faults and never
// abort the run.
type Agent interface {
	// Name is the stable address other stages send to.
	Name() string

	// Handle processes one envelope, emitting follow-up envelopes through
	// the outbox. Implementations must respect ctx cancellation on any
	// blocking work.
	Handle(ctx context.Context, env Envelope, out Outbox) error
}
