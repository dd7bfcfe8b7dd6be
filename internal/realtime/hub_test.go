package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndPresence(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.IsOnline(10))

	clientA, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(10))
	assert.Equal(t, 1, hub.ConnectionCount(10))

	// Second tab for the same user.
	clientB, err := hub.Register(10, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, hub.ConnectionCount(10))

	hub.UnregisterClient(clientA)
	assert.True(t, hub.IsOnline(10))

	hub.UnregisterClient(clientB)
	assert.False(t, hub.IsOnline(10))
	assert.Equal(t, 0, hub.ConnectionCount(10))
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(7, nil)
	require.NoError(t, err)

	hub.UnregisterClient(client)
	hub.UnregisterClient(client)
	assert.Equal(t, 0, hub.ConnectionCount(7))

	// A client that was never registered is also safe.
	stray := NewClient(hub, nil, 99)
	hub.UnregisterClient(stray)
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(5, nil)
		require.NoError(t, err)
	}

	_, err := hub.Register(5, nil)
	assert.Error(t, err)

	// Other users are unaffected by one user's limit.
	_, err = hub.Register(6, nil)
	assert.NoError(t, err)
}

func TestHub_EmitToUserDeliversEnvelope(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(3, nil)
	require.NoError(t, err)

	hub.EmitToUser(3, "application:new", map[string]any{"id": 12})

	select {
	case data := <-client.Send:
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		assert.Equal(t, "application:new", evt.Type)
		payload, ok := evt.Payload.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(12), payload["id"])
	default:
		t.Fatal("expected event on client send channel")
	}
}

func TestHub_EmitToUserIsRecipientScoped(t *testing.T) {
	hub := NewHub()

	recipient, err := hub.Register(1, nil)
	require.NoError(t, err)
	bystander, err := hub.Register(2, nil)
	require.NoError(t, err)

	hub.EmitToUser(1, "message:new", map[string]any{"thread_id": 4})

	assert.Len(t, recipient.Send, 1)
	assert.Len(t, bystander.Send, 0)

	// Emitting to a user with no channels is a no-op.
	hub.EmitToUser(42, "message:new", nil)
}

func TestHub_EmitFansOutToAllUserChannels(t *testing.T) {
	hub := NewHub()

	clientA, err := hub.Register(8, nil)
	require.NoError(t, err)
	clientB, err := hub.Register(8, nil)
	require.NoError(t, err)

	hub.EmitToUser(8, "application:updated", map[string]any{"id": 1, "status": "approved"})

	assert.Len(t, clientA.Send, 1)
	assert.Len(t, clientB.Send, 1)
}

func TestClient_TrySendDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(9, nil)
	require.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("backlog")
	}

	// Must not block or panic; the message is dropped.
	client.TrySend([]byte(`{"type":"message:new"}`))
	assert.Equal(t, cap(client.Send), len(client.Send))
}

func TestClient_TrySendSurvivesClosedChannel(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(11, nil)
	require.NoError(t, err)

	close(client.Send)
	client.TrySend([]byte(`{"type":"message:new"}`))
}

func TestHub_ShutdownClearsRegistry(t *testing.T) {
	hub := NewHub()

	_, err := hub.Register(1, nil)
	require.NoError(t, err)
	_, err = hub.Register(2, nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	assert.False(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(2))

	// The hub accepts new registrations after shutdown.
	_, err = hub.Register(1, nil)
	assert.NoError(t, err)
}
