package actor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actor "github.com/joeycumines/go-actor"
)

// scenarioActor mirrors the "state 996" lifecycle scenario: on_start bumps
// the counter up then back down, and a single message type answers
// differently depending on whether it was dispatched concurrently or
// exclusively.
type scenarioActor struct{ n int }

func (a *scenarioActor) OnStart(ctx *actor.Context[*scenarioActor]) {
	a.n++
	a.n--
}

func (a *scenarioActor) OnStop(ctx *actor.Context[*scenarioActor]) {}

func (a *scenarioActor) SizeHint() int { return 0 }

type probeMsg struct{}

func (probeMsg) Handle(ctx *actor.Context[*scenarioActor], act *scenarioActor) int {
	return act.n
}

func (probeMsg) HandleWait(ctx *actor.Context[*scenarioActor], act *scenarioActor) int {
	return 251
}

func TestLifecycleAndDispatchModes(t *testing.T) {
	addr := actor.Spawn[*scenarioActor](&scenarioActor{n: 996})
	defer func() {
		_, _ = addr.Stop(true).Get(context.Background())
	}()

	concurrent, err := actor.Send[*scenarioActor, int](context.Background(), addr, probeMsg{}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 996, concurrent)

	exclusive, err := actor.Wait[*scenarioActor, int](context.Background(), addr, probeMsg{}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 251, exclusive)
}
