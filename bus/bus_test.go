package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramesh/terramesh/core"
)

// recordingAgent captures every envelope it is handed, optionally failing or
// emitting follow-ups.
type recordingAgent struct {
	name     string
	handled  []core.Envelope
	fail     error
	emit     []core.Envelope
	onHandle func(env core.Envelope, out core.Outbox) error
}

func (a *recordingAgent) Name() string { return a.name }

func (a *recordingAgent) Handle(_ context.Context, env core.Envelope, out core.Outbox) error {
	a.handled = append(a.handled, env)
	if a.onHandle != nil {
		return a.onHandle(env, out)
	}
	for _, e := range a.emit {
		out.Send(e)
	}
	return a.fail
}

func start(receiver, session, goal string) core.Envelope {
	return core.New("test", receiver, session, core.StartPayload{GoalText: goal, RegionID: "coastal_city_01"})
}

func TestRun_DeliversInFIFOOrder(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	b.Send(start("sink", "s1", "first"))
	b.Send(start("sink", "s1", "second"))
	b.Send(start("sink", "s1", "third"))

	report, err := b.Run(context.Background(), "s1", 100)
	require.NoError(t, err)

	require.Len(t, agent.handled, 3)
	assert.Equal(t, "first", agent.handled[0].Payload.(core.StartPayload).GoalText)
	assert.Equal(t, "second", agent.handled[1].Payload.(core.StartPayload).GoalText)
	assert.Equal(t, "third", agent.handled[2].Payload.(core.StartPayload).GoalText)
	assert.Equal(t, 3, report.Steps)
	assert.Equal(t, 3, report.Delivered)
	assert.False(t, report.LimitReached)
}

func TestRun_EmittedEnvelopesJoinTheTail(t *testing.T) {
	var order []string
	b := New()

	first := &recordingAgent{name: "first"}
	first.onHandle = func(env core.Envelope, out core.Outbox) error {
		order = append(order, "first")
		out.Send(start("second", env.SessionID, "follow-up"))
		return nil
	}
	second := &recordingAgent{name: "second"}
	second.onHandle = func(core.Envelope, core.Outbox) error {
		order = append(order, "second")
		return nil
	}
	b.Register(first)
	b.Register(second)

	b.Send(start("first", "s1", "go"))
	b.Send(start("second", "s1", "queued-before-follow-up"))

	report, err := b.Run(context.Background(), "s1", 100)
	require.NoError(t, err)

	// The follow-up lands behind the already-queued envelope.
	assert.Equal(t, []string{"first", "second", "second"}, order)
	assert.Equal(t, 3, report.Delivered)
}

func TestRun_SessionFilterRecyclesForeignEnvelopes(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	b.Send(start("sink", "other", "foreign"))
	b.Send(start("sink", "mine", "local"))

	report, err := b.Run(context.Background(), "mine", 100)
	require.NoError(t, err)

	require.Len(t, agent.handled, 1)
	assert.Equal(t, "mine", agent.handled[0].SessionID)
	assert.Equal(t, 1, report.Delivered)
	assert.GreaterOrEqual(t, report.Recycled, 1)

	// The foreign envelope survives for a later run under its own filter.
	assert.Equal(t, 1, b.QueueLen())
	report, err = b.Run(context.Background(), "other", 100)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Delivered)
	require.Len(t, agent.handled, 2)
	assert.Equal(t, "other", agent.handled[1].SessionID)
}

func TestRun_ForeignOnlyQueueTerminates(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	b.Send(start("sink", "other", "a"))
	b.Send(start("sink", "other", "b"))

	report, err := b.Run(context.Background(), "mine", 100)
	require.NoError(t, err)

	assert.Empty(t, agent.handled)
	assert.Equal(t, 0, report.Delivered)
	assert.Equal(t, report.Recycled, report.Steps)
	// Both envelopes are still queued, order preserved.
	assert.Equal(t, 2, b.QueueLen())
}

func TestRun_UnknownReceiverIsContained(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	b.Send(start("nobody", "s1", "lost"))
	b.Send(start("sink", "s1", "delivered"))

	report, err := b.Run(context.Background(), "s1", 100)
	require.NoError(t, err)

	require.Len(t, report.Faults, 1)
	assert.Equal(t, FaultUnknownReceiver, report.Faults[0].Kind)
	assert.Equal(t, "nobody", report.Faults[0].Receiver)

	var unknownErr *core.UnknownReceiverError
	require.ErrorAs(t, report.Faults[0].Err, &unknownErr)
	assert.Equal(t, "nobody", unknownErr.Receiver)

	// The run carried on past the fault.
	require.Len(t, agent.handled, 1)
	assert.Equal(t, 1, report.Delivered)
}

func TestRun_HandlerFailureIsContained(t *testing.T) {
	boom := errors.New("boom")
	failing := &recordingAgent{name: "failing", fail: boom}
	healthy := &recordingAgent{name: "healthy"}
	b := New()
	b.Register(failing)
	b.Register(healthy)

	b.Send(start("failing", "s1", "explodes"))
	b.Send(start("healthy", "s1", "survives"))

	report, err := b.Run(context.Background(), "s1", 100)
	require.NoError(t, err)

	require.Len(t, report.Faults, 1)
	assert.Equal(t, FaultHandlerFailure, report.Faults[0].Kind)
	assert.ErrorIs(t, report.Faults[0].Err, boom)
	require.Len(t, healthy.handled, 1)
	assert.Equal(t, 1, report.Delivered)
}

func TestRun_StepLimitStopsTheLoop(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	for i := 0; i < 5; i++ {
		b.Send(start("sink", "s1", "work"))
	}

	report, err := b.Run(context.Background(), "s1", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Steps)
	assert.Equal(t, 3, report.Delivered)
	assert.True(t, report.LimitReached)
	assert.Equal(t, 2, b.QueueLen())
}

func TestRun_RecyclesCostSteps(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	b.Send(start("sink", "other", "foreign"))
	b.Send(start("sink", "mine", "local"))

	// Limit of 1 is eaten entirely by the foreign recycle.
	report, err := b.Run(context.Background(), "mine", 1)
	require.NoError(t, err)

	assert.Empty(t, agent.handled)
	assert.Equal(t, 1, report.Steps)
	assert.Equal(t, 1, report.Recycled)
	assert.True(t, report.LimitReached)
}

func TestRun_NonPositiveStepLimitIsRejected(t *testing.T) {
	b := New()
	_, err := b.Run(context.Background(), "s1", 0)
	assert.ErrorIs(t, err, ErrNonPositiveStepLimit)

	_, err = b.Run(context.Background(), "s1", -7)
	assert.ErrorIs(t, err, ErrNonPositiveStepLimit)
}

func TestRun_ContextCancellationStopsDispatch(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())

	agent := &recordingAgent{name: "sink"}
	agent.onHandle = func(core.Envelope, core.Outbox) error {
		cancel()
		return nil
	}
	b.Register(agent)

	b.Send(start("sink", "s1", "first"))
	b.Send(start("sink", "s1", "never-delivered"))

	report, err := b.Run(ctx, "s1", 100)
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, agent.handled, 1)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, b.QueueLen())
}

func TestRegister_RebindIsLastWriteWins(t *testing.T) {
	old := &recordingAgent{name: "stage"}
	replacement := &recordingAgent{name: "stage"}
	b := New()
	b.Register(old)
	b.Register(replacement)

	b.Send(start("stage", "s1", "go"))
	_, err := b.Run(context.Background(), "s1", 10)
	require.NoError(t, err)

	assert.Empty(t, old.handled)
	require.Len(t, replacement.handled, 1)
}

func TestRun_EmptyFilterDeliversAllSessions(t *testing.T) {
	agent := &recordingAgent{name: "sink"}
	b := New()
	b.Register(agent)

	b.Send(start("sink", "s1", "a"))
	b.Send(start("sink", "s2", "b"))

	report, err := b.Run(context.Background(), "", 100)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 0, report.Recycled)
}
