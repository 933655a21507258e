package delivery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushToRegisteredChannel(t *testing.T) {
	hub := NewHub(4, nil)

	require.False(t, hub.IsConnected("a@example.com"))
	ch := hub.Register("a@example.com")
	require.True(t, hub.IsConnected("a@example.com"))

	hub.Push("a@example.com", "notification", "payload")

	event := <-ch
	require.Equal(t, "notification", event.Topic)
	require.Equal(t, "payload", event.Payload)
}

func TestPushToAbsentChannelIsNoop(t *testing.T) {
	hub := NewHub(4, nil)
	hub.Push("nobody@example.com", "notification", "payload")
}

func TestReRegisterReplacesChannel(t *testing.T) {
	hub := NewHub(4, nil)

	first := hub.Register("a@example.com")
	second := hub.Register("a@example.com")

	// The first channel is closed so its consumer can exit.
	_, open := <-first
	require.False(t, open)

	hub.Push("a@example.com", "notification", "payload")
	event := <-second
	require.Equal(t, "payload", event.Payload)
}

func TestStaleUnregisterKeepsNewChannel(t *testing.T) {
	hub := NewHub(4, nil)

	stale := hub.Register("a@example.com")
	hub.Register("a@example.com")

	hub.Unregister("a@example.com", stale)
	require.True(t, hub.IsConnected("a@example.com"))
}

func TestUnregisterClosesChannel(t *testing.T) {
	hub := NewHub(4, nil)

	ch := hub.Register("a@example.com")
	hub.Unregister("a@example.com", ch)

	require.False(t, hub.IsConnected("a@example.com"))
	_, open := <-ch
	require.False(t, open)

	// A second unregister is harmless.
	hub.Unregister("a@example.com", ch)
}

func TestFullChannelDropsFrame(t *testing.T) {
	hub := NewHub(1, nil)

	ch := hub.Register("a@example.com")
	hub.Push("a@example.com", "notification", "first")
	hub.Push("a@example.com", "notification", "second")

	event := <-ch
	require.Equal(t, "first", event.Payload)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra frame: %v", extra.Payload)
	default:
	}
}
