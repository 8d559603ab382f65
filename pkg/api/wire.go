// Package api holds the wire contract between the theodore daemon and its
// clients: header and query parameter names, shared response types and the
// plain-text stats document.
package api

import "time"

// Header names. Message metadata travels in headers; bodies carry nothing
// but the payload itself.
const (
	// HeaderID carries the retrieved message's id.
	HeaderID = "X-Id"

	// HeaderChannel carries the retrieved message's channel on
	// multi-channel responses.
	HeaderChannel = "X-Channel"

	// HeaderStartDate carries the daemon's start date on stale-client
	// rejections, so the client can fence itself and resync.
	HeaderStartDate = "X-Start-Date"

	// HeaderChannelIDPrefix heads the per-channel resync headers of a
	// multi-channel response: X-Id-<channel> is that channel's last
	// assigned id at response time.
	HeaderChannelIDPrefix = "X-Id-"
)

// Query parameter names.
const (
	// ParamMinID selects the message to retrieve: "next", a non-negative
	// integer, or absent for the latest.
	ParamMinID = "min_id"

	// ParamNoWait bounds the retrieval to NoWaitTimeout when present.
	ParamNoWait = "no_wait"

	// ParamChannel names the channel on stats requests.
	ParamChannel = "channel"

	// ParamStartDate is the query escape hatch for clients that cannot set
	// headers: the daemon start date the client last saw.
	ParamStartDate = "_http_equiv_x_start_date"
)

// NoWaitTimeout bounds a retrieval when the client asks not to wait. Short
// but not zero, so a message that is already available still comes back.
const NoWaitTimeout = 100 * time.Millisecond

// ChannelIDHeader returns the per-channel resync header name for channel.
func ChannelIDHeader(channel string) string {
	return HeaderChannelIDPrefix + channel
}
