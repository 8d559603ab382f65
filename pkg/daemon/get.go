package daemon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/JulienPalard/TheodoreServer/pkg/api"
	"github.com/JulienPalard/TheodoreServer/pkg/broker"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

func (srv *Daemon) getHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.S().With("ruid", r.Header.Get("X-Request-ID"))

		channel := mux.Vars(r)["channel"]
		q := r.URL.Query()

		// A client that recorded the start date of a previous incarnation
		// is working from ids this process never assigned. Fence it off
		// with the current date so it can resync.
		if q.Has(api.ParamStartDate) && q.Get(api.ParamStartDate) != srv.startDate {
			log.Debugw("stale client fenced", "channel", channel, "start_date", q.Get(api.ParamStartDate))
			w.Header().Set(api.HeaderStartDate, srv.startDate)
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}

		sel := broker.ParseSelector(q.Get(api.ParamMinID))
		timeout := broker.NoTimeout
		if q.Has(api.ParamNoWait) {
			timeout = api.NoWaitTimeout
		}

		log.Debugw("handle request", "command", "get", "channel", channel, "selector", sel)
		defer log.Debugw("request handled", "command", "get", "channel", channel)

		msg, err := srv.broker.Get(r.Context(), channel, sel, timeout)
		if err != nil {
			if errors.Is(err, broker.ErrNoMessage) {
				w.WriteHeader(http.StatusNotFound)
			}
			// Otherwise the client hung up; nobody is listening for a
			// status code anymore.
			return
		}

		w.Header().Set(api.HeaderID, strconv.FormatUint(msg.ID, 10))
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(msg.Payload); err != nil {
			log.Warnw("could not write response back", "err", err)
		}
	}
}
