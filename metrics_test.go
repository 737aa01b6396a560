package actor_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	actor "github.com/joeycumines/go-actor"
)

// TestDriverMetricsCounters exercises the hook counters end to end, with a
// real logger installed so the logging path runs too.
func TestDriverMetricsCounters(t *testing.T) {
	m := &actor.DriverMetrics{}
	addr := actor.Spawn[*echoActor](&echoActor{},
		actor.WithDriverMetrics(m),
		actor.WithLogger(actor.NewSlogLogger(slog.NewTextHandler(io.Discard, nil))),
	)

	for i := 0; i < 3; i++ {
		_, err := actor.Send[*echoActor, string](context.Background(), addr, pingMsg{}).Get(context.Background())
		require.NoError(t, err)
	}

	// pingMsg only implements Handle; the recipient falls back to it for
	// exclusive dispatch.
	recipient := actor.NewRecipient[*echoActor, pingMsg, string](addr)
	res, err := recipient.Wait(context.Background(), pingMsg{}).Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, "pong", res)

	_, err = addr.Stop(true).Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), m.ConcurrentTasksSpawned.Load())
	assert.Equal(t, int64(3), m.ConcurrentTasksDone.Load())
	assert.Equal(t, int64(1), m.ExclusiveTasksRun.Load())
	// 3 sends + 1 wait + 1 stop envelope.
	assert.Equal(t, int64(5), m.MailboxMessagesAdmitted.Load())
}
