package api

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is a retrieved message as seen by a client: the payload from the
// response body, channel and id from the headers.
type Message struct {
	Channel string
	ID      uint64
	Payload []byte
}

// MultiMessage is the result of a multi-channel retrieval: the winning
// message plus every watched channel's last assigned id at response time,
// from the X-Id-<channel> headers.
type MultiMessage struct {
	Message
	LastIDs map[string]uint64
}

// ChannelStats is the stats document for one channel.
type ChannelStats struct {
	Name        string
	Subscribers int
	Messages    int
}

func (s ChannelStats) String() string {
	return fmt.Sprintf("name: %s\nsubscribers: %d\nmessages: %d\n", s.Name, s.Subscribers, s.Messages)
}

// ParseChannelStats parses the document produced by ChannelStats.String.
// Unknown keys are ignored.
func ParseChannelStats(text string) (*ChannelStats, error) {
	var s ChannelStats
	for _, line := range strings.Split(strings.TrimRight(text, "\n "), "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("malformed stats line: %q", line)
		}
		switch key {
		case "name":
			s.Name = value
		case "subscribers":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("malformed subscriber count: %w", err)
			}
			s.Subscribers = n
		case "messages":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("malformed message count: %w", err)
			}
			s.Messages = n
		}
	}
	return &s, nil
}
