package sidebar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_Transitions(t *testing.T) {
	c := NewConnection()
	assert.Equal(t, Disconnected, c.State())

	assert.False(t, c.Disconnected())
	assert.True(t, c.Connected())
	assert.False(t, c.Connected())
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, "connected", c.State().String())

	assert.True(t, c.Disconnected())
	assert.Equal(t, Disconnected, c.State())
}

func TestConnection_AwaitConnected(t *testing.T) {
	c := NewConnection()

	done := make(chan error, 1)
	go func() {
		done <- c.AwaitConnected(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("resolved before connect")
	case <-time.After(20 * time.Millisecond):
	}

	c.Connected()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter not released")
	}

	// уже подключено: возвращается сразу
	require.NoError(t, c.AwaitConnected(context.Background()))
}

func TestConnection_AwaitRearmsAfterDisconnect(t *testing.T) {
	c := NewConnection()
	c.Connected()
	c.Disconnected()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AwaitConnected(ctx), context.DeadlineExceeded)
}
