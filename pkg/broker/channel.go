package broker

import (
	"container/list"
	"context"
	"sync"
)

// Channel is an independent, named, append-only sequence of messages with
// its own id counter. Ids are dense, start at 1 and grow by one per push;
// the store never evicts, so a message stays retrievable by id for the
// lifetime of the process.
//
// All methods are safe for concurrent use.
type Channel struct {
	name string

	mu      sync.Mutex
	lastID  uint64
	store   map[uint64]*Message
	waiters *list.List // of chan *Message, one per parked wait
}

func newChannel(name string) *Channel {
	return &Channel{
		name:    name,
		store:   make(map[uint64]*Message),
		waiters: list.New(),
	}
}

// Name returns the channel's name.
func (c *Channel) Name() string { return c.name }

// LastID returns the most recently assigned message id, 0 when the channel
// has never been pushed to.
func (c *Channel) LastID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastID
}

// Push assigns the next id to payload, stores the message and delivers it to
// every waiter currently parked on the channel, each exactly once. It never
// blocks, not even when a resolved waiter never collects its message.
func (c *Channel) Push(payload []byte) *Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastID++
	msg := &Message{Channel: c.name, ID: c.lastID, Payload: payload}
	c.store[msg.ID] = msg

	// Each waiter channel has one slot and leaves the registry the moment
	// it is resolved, so the sends cannot block and no waiter can be
	// resolved twice.
	for e := c.waiters.Front(); e != nil; {
		next := e.Next()
		e.Value.(chan *Message) <- msg
		c.waiters.Remove(e)
		e = next
	}

	return msg
}

// WaitNext parks until the next push and returns its message, or until ctx
// fires. The wait handle is deregistered on every exit path.
func (c *Channel) WaitNext(ctx context.Context) (*Message, error) {
	ch := make(chan *Message, 1)

	c.mu.Lock()
	e := c.waiters.PushBack(ch)
	c.mu.Unlock()

	return c.wait(ctx, e, ch)
}

// WaitID returns the message with the given id straight from the store when
// it has already been assigned. Otherwise it parks, accepting the first
// delivered message whose id is >= id; ids grow monotonically, so a push
// with a large enough id terminates the wait. Intermediate messages may be
// observed and skipped.
func (c *Channel) WaitID(ctx context.Context, id uint64) (*Message, error) {
	for {
		ch := make(chan *Message, 1)

		// The store check and the registration have to be one critical
		// section: a push landing between them would otherwise be missed
		// and the wait would overshoot to the following push.
		c.mu.Lock()
		if msg, ok := c.store[id]; ok {
			c.mu.Unlock()
			return msg, nil
		}
		e := c.waiters.PushBack(ch)
		c.mu.Unlock()

		msg, err := c.wait(ctx, e, ch)
		if err != nil {
			return nil, err
		}
		if msg.ID >= id {
			return msg, nil
		}
	}
}

// wait blocks on a registered handle until resolution or ctx. Removing the
// element is a no-op when a push already did, so abandoning a resolved
// handle is harmless.
func (c *Channel) wait(ctx context.Context, e *list.Element, ch chan *Message) (*Message, error) {
	defer func() {
		c.mu.Lock()
		c.waiters.Remove(e)
		c.mu.Unlock()
	}()

	select {
	case msg := <-ch:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stats takes a point-in-time snapshot of the channel.
func (c *Channel) Stats() ChannelStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ChannelStats{
		Name:        c.name,
		Subscribers: c.waiters.Len(),
		Messages:    len(c.store),
	}
}
