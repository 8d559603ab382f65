package broker

import "strconv"

type selectorKind int

const (
	selectLatest selectorKind = iota
	selectNext
	selectID
)

// Selector is the client's criterion for which message a retrieval is after:
// the next message to be pushed, the most recently assigned one or a specific
// id (that id, or the first later one if it does not exist yet).
type Selector struct {
	kind selectorKind
	id   uint64
}

// Next selects whatever message is pushed after the wait begins.
func Next() Selector { return Selector{kind: selectNext} }

// Latest selects the most recently assigned message. On a channel that has
// never been pushed to it waits for the first push instead.
func Latest() Selector { return Selector{kind: selectLatest} }

// ByID selects the message with the given id, waiting for it when it has not
// been assigned yet.
func ByID(id uint64) Selector { return Selector{kind: selectID, id: id} }

// ParseSelector interprets a client-supplied min_id token. An empty token
// selects the latest message and "next" the next one; a base-10 non-negative
// integer selects a specific id. Anything else selects the next message too:
// javascript clients have been sending "NaN" here for years, and rejecting
// malformed tokens now would break them.
func ParseSelector(token string) Selector {
	switch token {
	case "":
		return Latest()
	case "next":
		return Next()
	}
	if id, err := strconv.ParseUint(token, 10, 64); err == nil {
		return ByID(id)
	}
	return Next()
}

func (s Selector) String() string {
	switch s.kind {
	case selectNext:
		return "next"
	case selectID:
		return strconv.FormatUint(s.id, 10)
	default:
		return "latest"
	}
}
