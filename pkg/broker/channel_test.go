package broker_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/JulienPalard/TheodoreServer/pkg/broker"
)

func TestPushAssignsDenseIDs(t *testing.T) {
	ch := broker.New().Channel("foo")

	for i := 1; i <= 5; i++ {
		msg := ch.Push([]byte(strconv.Itoa(i)))
		assert.Equal(t, uint64(i), msg.ID)
		assert.Equal(t, "foo", msg.Channel)
	}
	assert.Equal(t, uint64(5), ch.LastID())
}

func TestConcurrentPushesAssignDenseIDs(t *testing.T) {
	const iterations = 100

	ch := broker.New().Channel("foo")

	grp := errgroup.Group{}
	v := make([]bool, iterations)
	for i := 0; i < iterations; i++ {
		grp.Go(func() error {
			msg := ch.Push([]byte("hello"))
			v[msg.ID-1] = true
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		t.Fatal(err)
	}

	for i, b := range v {
		if !b {
			t.Fatalf("message id absent: %d", i+1)
		}
	}
	assert.Equal(t, uint64(iterations), ch.LastID())
}

func TestWaitNextResolvedByPush(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := broker.New().Channel("foo")

	got := make(chan *broker.Message, 1)
	go func() {
		msg, err := ch.WaitNext(ctx)
		if err != nil {
			t.Error(err)
			return
		}
		got <- msg
	}()

	require.Eventually(t, func() bool {
		return ch.Stats().Subscribers == 1
	}, 2*time.Second, 5*time.Millisecond)

	ch.Push([]byte("hello"))

	select {
	case msg := <-got:
		assert.Equal(t, uint64(1), msg.ID)
		assert.Equal(t, []byte("hello"), msg.Payload)
	case <-ctx.Done():
		t.Fatal("waiter was not resolved by the push")
	}
}

func TestWaitNextDeregistersOnTimeout(t *testing.T) {
	ch := broker.New().Channel("foo")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	msg, err := ch.WaitNext(ctx)
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, ch.Stats().Subscribers)
}

func TestPushBroadcastsToAllWaiters(t *testing.T) {
	const waiters = 10

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := broker.New().Channel("foo")

	got := make(chan *broker.Message, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			msg, err := ch.WaitNext(ctx)
			if err != nil {
				t.Error(err)
				return
			}
			got <- msg
		}()
	}

	require.Eventually(t, func() bool {
		return ch.Stats().Subscribers == waiters
	}, 2*time.Second, 5*time.Millisecond)

	pushed := ch.Push([]byte("hello"))

	for i := 0; i < waiters; i++ {
		select {
		case msg := <-got:
			assert.Same(t, pushed, msg)
		case <-ctx.Done():
			t.Fatalf("only %d of %d waiters were resolved", i, waiters)
		}
	}

	// Everyone resolved leaves the registry; the next push finds it empty.
	assert.Equal(t, 0, ch.Stats().Subscribers)
}

func TestWaitIDReturnsFromStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := broker.New().Channel("foo")
	ch.Push([]byte("first"))
	ch.Push([]byte("second"))

	// Both pushes happened with nobody reading; id 1 must still come back
	// from storage, not id 2.
	msg, err := ch.WaitID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), msg.ID)
	assert.Equal(t, []byte("first"), msg.Payload)
}

func TestWaitIDSkipsIntermediateMessages(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := broker.New().Channel("foo")

	got := make(chan *broker.Message, 1)
	go func() {
		msg, err := ch.WaitID(ctx, 3)
		if err != nil {
			t.Error(err)
			return
		}
		got <- msg
	}()

	require.Eventually(t, func() bool {
		return ch.Stats().Subscribers == 1
	}, 2*time.Second, 5*time.Millisecond)

	ch.Push([]byte("a"))
	ch.Push([]byte("b"))
	ch.Push([]byte("c"))

	select {
	case msg := <-got:
		assert.Equal(t, uint64(3), msg.ID)
		assert.Equal(t, []byte("c"), msg.Payload)
	case <-ctx.Done():
		t.Fatal("waiter did not resolve on the satisfying push")
	}
}

func TestWaitIDZeroResolvesOnFirstPush(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := broker.New().Channel("foo")

	got := make(chan *broker.Message, 1)
	go func() {
		msg, err := ch.WaitID(ctx, 0)
		if err != nil {
			t.Error(err)
			return
		}
		got <- msg
	}()

	require.Eventually(t, func() bool {
		return ch.Stats().Subscribers == 1
	}, 2*time.Second, 5*time.Millisecond)

	ch.Push([]byte("hello"))

	select {
	case msg := <-got:
		assert.Equal(t, uint64(1), msg.ID)
	case <-ctx.Done():
		t.Fatal("wait for id 0 did not resolve on the first push")
	}
}

func TestStatsSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch := broker.New().Channel("foo")

	stats := ch.Stats()
	assert.Equal(t, "foo", stats.Name)
	assert.Equal(t, 0, stats.Subscribers)
	assert.Equal(t, 0, stats.Messages)

	ch.Push([]byte("one"))
	ch.Push([]byte("two"))

	go func() {
		_, _ = ch.WaitNext(ctx)
	}()
	require.Eventually(t, func() bool {
		return ch.Stats().Subscribers == 1
	}, 2*time.Second, 5*time.Millisecond)

	stats = ch.Stats()
	assert.Equal(t, 1, stats.Subscribers)
	assert.Equal(t, 2, stats.Messages)
}
