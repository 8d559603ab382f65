package daemon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JulienPalard/TheodoreServer/pkg/api"
	"github.com/JulienPalard/TheodoreServer/pkg/broker"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

func (srv *Daemon) multiHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.S().With("ruid", r.Header.Get("X-Request-ID"))

		// Every query parameter except no_wait is a channel to watch, its
		// value the selector.
		q := r.URL.Query()
		timeout := broker.NoTimeout
		if q.Has(api.ParamNoWait) {
			timeout = api.NoWaitTimeout
			q.Del(api.ParamNoWait)
		}

		selectors := make(map[string]broker.Selector, len(q))
		for name := range q {
			selectors[name] = broker.ParseSelector(q.Get(name))
		}

		log.Debugw("handle request", "command", "watch", "channels", len(selectors))
		defer log.Debugw("request handled", "command", "watch")

		msg, err := srv.broker.GetMultiple(r.Context(), selectors, timeout)
		switch {
		case errors.Is(err, broker.ErrNoChannels):
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		case errors.Is(err, broker.ErrNoMessage):
			w.WriteHeader(http.StatusNotFound)
			return
		case err != nil:
			// The client hung up.
			return
		}

		h := w.Header()
		h.Set(api.HeaderID, strconv.FormatUint(msg.ID, 10))
		h.Set(api.HeaderChannel, msg.Channel)
		for name := range selectors {
			// Assigned directly so the channel's exact case survives on
			// the wire; Set would canonicalize the key.
			h[api.ChannelIDHeader(name)] = []string{strconv.FormatUint(srv.broker.Channel(name).LastID(), 10)}
		}
		h.Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(msg.Payload); err != nil {
			log.Warnw("could not write response back", "err", err)
		}
	}
}
