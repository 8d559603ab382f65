// Package broker implements the long-polling message core: named channels
// of densely numbered messages held in memory, with blocking retrieval by
// id, next or latest over one channel or a race across several.
package broker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// NoTimeout leaves a retrieval bounded only by its context.
const NoTimeout time.Duration = 0

var (
	// ErrNoMessage means no message satisfied the selector before the wait
	// expired. It is the ordinary result of a bounded wait, not a failure.
	ErrNoMessage = errors.New("no message available")

	// ErrNoChannels means a multi-channel retrieval was given nothing to
	// watch. It is returned before any wait starts.
	ErrNoChannels = errors.New("no channels requested")
)

// Broker dispatches pushes and retrievals to channels, creating each channel
// lazily on first reference. Channels are never removed. The broker also
// carries the process start date, which the serving layer uses to fence off
// clients that talked to a previous incarnation.
type Broker struct {
	mu       sync.Mutex
	channels map[string]*Channel

	started time.Time
}

// New creates an empty broker and stamps it with the current time.
func New() *Broker {
	return &Broker{
		channels: make(map[string]*Channel),
		started:  time.Now(),
	}
}

// Started returns the broker's construction time.
func (b *Broker) Started() time.Time { return b.started }

// Channel returns the named channel, creating it if this is the first
// reference. It never blocks on waiter activity.
func (b *Broker) Channel(name string) *Channel {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.channels[name]
	if !ok {
		c = newChannel(name)
		b.channels[name] = c
	}
	return c
}

// Push appends payload to the named channel and returns the stored message.
func (b *Broker) Push(channel string, payload []byte) *Message {
	return b.Channel(channel).Push(payload)
}

// Get retrieves one message from the named channel according to sel,
// waiting at most timeout (NoTimeout waits until ctx fires). It returns
// ErrNoMessage when the wait expires first and ctx.Err() when the caller
// gives up. A negative timeout is a caller bug.
func (b *Broker) Get(ctx context.Context, channel string, sel Selector, timeout time.Duration) (*Message, error) {
	if timeout < 0 {
		panic("broker: negative timeout")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	c := b.Channel(channel)

	var msg *Message
	var err error
	switch sel.kind {
	case selectNext:
		msg, err = c.WaitNext(ctx)
	case selectLatest:
		msg, err = c.WaitID(ctx, c.LastID())
	default:
		msg, err = c.WaitID(ctx, sel.id)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrNoMessage
		}
		return nil, err
	}
	return msg, nil
}

// GetMultiple watches every channel in selectors concurrently and returns
// the first message any of them produces. Losing candidates are cancelled
// and deregister their wait handles on the way out. An empty selectors map
// returns ErrNoChannels without waiting; if every candidate times out,
// GetMultiple returns ErrNoMessage.
func (b *Broker) GetMultiple(ctx context.Context, selectors map[string]Selector, timeout time.Duration) (*Message, error) {
	if timeout < 0 {
		panic("broker: negative timeout")
	}
	if len(selectors) == 0 {
		return nil, ErrNoChannels
	}

	if timeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, timeout)
		defer tcancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered to the candidate count, so no candidate ever blocks on
	// reporting a result nobody collects.
	results := make(chan *Message, len(selectors))

	var wg sync.WaitGroup
	for name, sel := range selectors {
		wg.Add(1)
		go func(name string, sel Selector) {
			defer wg.Done()
			if msg, err := b.Get(ctx, name, sel, NoTimeout); err == nil {
				results <- msg
			}
		}(name, sel)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	msg, ok := <-results
	if !ok {
		// Every candidate came back empty-handed. Tell cancellation and
		// expiry apart for the caller.
		if err := ctx.Err(); errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, ErrNoMessage
	}
	return msg, nil
}
