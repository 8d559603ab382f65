package daemon

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

func (srv *Daemon) pushHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.S().With("ruid", r.Header.Get("X-Request-ID"))

		channel := mux.Vars(r)["channel"]

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warnw("could not read request body", "channel", channel, "err", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		msg := srv.broker.Push(channel, payload)
		log.Debugw("message pushed", "channel", channel, "id", msg.ID, "bytes", len(payload))
	}
}
