package presence

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectDisconnect(t *testing.T) {
	r := NewRegistry()
	require.False(t, r.IsOnline("alice"))

	r.Connect("alice", "conn-1")
	require.True(t, r.IsOnline("alice"))

	last, ok := r.LastActive("alice")
	require.True(t, ok)
	require.WithinDuration(t, time.Now().UTC(), last, time.Second)

	require.True(t, r.Disconnect("alice", "conn-1"))
	require.False(t, r.IsOnline("alice"))
	_, ok = r.LastActive("alice")
	require.False(t, ok)

	// disconnecting an absent user is a no-op
	require.False(t, r.Disconnect("alice", "conn-1"))
}

func TestStaleDisconnectKeepsUserOnline(t *testing.T) {
	r := NewRegistry()
	r.Connect("alice", "conn-1")
	r.Connect("alice", "conn-2")

	// the older connection closing must not knock the newer one offline
	require.False(t, r.Disconnect("alice", "conn-1"))
	require.True(t, r.IsOnline("alice"))

	require.True(t, r.Disconnect("alice", "conn-2"))
	require.False(t, r.IsOnline("alice"))
}

func TestReconnectReplacesConnection(t *testing.T) {
	r := NewRegistry()
	r.Connect("alice", "conn-1")
	r.Connect("alice", "conn-2")
	require.True(t, r.IsOnline("alice"))
	require.Len(t, r.Snapshot(), 1)
}

func TestTouchRefreshesLastActive(t *testing.T) {
	r := NewRegistry()
	r.Connect("alice", "conn-1")
	before, _ := r.LastActive("alice")

	time.Sleep(5 * time.Millisecond)
	r.Touch("alice")
	after, _ := r.LastActive("alice")
	require.True(t, after.After(before))

	// touching an unknown user must not create an entry
	r.Touch("ghost")
	require.False(t, r.IsOnline("ghost"))
}

func TestSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Connect("alice", "c1")
	r.Connect("bob", "c2")
	require.ElementsMatch(t, []string{"alice", "bob"}, r.Snapshot())
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", i%10)
			connID := fmt.Sprintf("conn-%d", i)
			r.Connect(id, connID)
			r.Touch(id)
			r.IsOnline(id)
			r.Snapshot()
			if i%2 == 0 {
				r.Disconnect(id, connID)
			}
		}(i)
	}
	wg.Wait()
}
