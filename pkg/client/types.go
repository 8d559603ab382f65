package client

// GetRequest represents a single-channel retrieval.
type GetRequest struct {
	// Selector picks the message: "next", a non-negative integer for a
	// specific id, or empty for the latest.
	Selector string

	// NoWait bounds the wait to the daemon's no-wait timeout instead of
	// long-polling.
	NoWait bool

	// StartDate, when set, is the daemon start date this client last
	// recorded. The daemon rejects the request with a StaleClientError
	// when it does not match its own, which means the daemon restarted
	// and every id the client remembers is void.
	StartDate string
}

// MultiRequest represents a multi-channel retrieval: a race between every
// entry, won by the first message to show up.
type MultiRequest struct {
	// Selectors maps each channel to watch to its selector token.
	Selectors map[string]string

	// NoWait bounds the race to the daemon's no-wait timeout.
	NoWait bool
}
