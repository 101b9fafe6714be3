package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failWith error
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T, buffer int) *Hub {
	t.Helper()
	hub := NewHub(buffer, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestHub_DeliversOnlyToOwner(t *testing.T) {
	hub := startHub(t, 8)
	owner, other := uuid.New(), uuid.New()
	mine, theirs := &fakeConn{}, &fakeConn{}

	require.True(t, hub.Register(&Client{OwnerID: owner, Conn: mine}))
	require.True(t, hub.Register(&Client{OwnerID: other, Conn: theirs}))

	hub.Publish(owner, "transaction_created", map[string]int{"quantity": 3})

	require.Eventually(t, func() bool { return len(mine.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, theirs.received())

	var event Event
	require.NoError(t, json.Unmarshal(mine.received()[0], &event))
	assert.Equal(t, "stock_update", event.Type)
	assert.Equal(t, "transaction_created", event.Action)
}

func TestHub_DropsFailingClient(t *testing.T) {
	hub := startHub(t, 8)
	owner := uuid.New()
	broken := &fakeConn{failWith: errors.New("broken pipe")}

	require.True(t, hub.Register(&Client{OwnerID: owner, Conn: broken}))
	hub.Publish(owner, "product_updated", nil)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t, 8)
	conn := &fakeConn{}
	client := &Client{OwnerID: uuid.New(), Conn: conn}

	require.True(t, hub.Register(client))
	hub.Unregister(client)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, conn.isClosed())
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	// Not running: nothing drains the buffer.
	hub := NewHub(1, nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(uuid.New(), "product_created", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	conn := &fakeConn{}
	require.True(t, hub.Register(&Client{OwnerID: uuid.New(), Conn: conn}))
	cancel()
	<-stopped

	assert.True(t, conn.isClosed())
	assert.False(t, hub.Register(&Client{OwnerID: uuid.New(), Conn: &fakeConn{}}))
}
