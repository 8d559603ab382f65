package broker

// Message is a single payload pushed to a channel. A message is immutable
// once assigned; the broker hands the same instance to every waiter resolved
// by its push and to every later retrieval by id.
type Message struct {
	Channel string
	ID      uint64
	Payload []byte
}

// ChannelStats is a point-in-time snapshot of one channel: how many waiters
// are currently parked on it and how many messages it has accumulated.
type ChannelStats struct {
	Name        string
	Subscribers int
	Messages    int
}
