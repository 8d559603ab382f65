package daemon

import (
	"io"
	"net/http"

	"github.com/JulienPalard/TheodoreServer/pkg/api"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

func (srv *Daemon) statsHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.S().With("ruid", r.Header.Get("X-Request-ID"))

		name := r.URL.Query().Get(api.ParamChannel)

		log.Debugw("handle request", "command", "stats", "channel", name)

		stats := srv.broker.Channel(name).Stats()
		doc := api.ChannelStats{
			Name:        stats.Name,
			Subscribers: stats.Subscribers,
			Messages:    stats.Messages,
		}

		if _, err := io.WriteString(w, doc.String()); err != nil {
			log.Warnw("could not write response back", "err", err)
		}
	}
}
