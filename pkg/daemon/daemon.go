package daemon

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pborman/uuid"

	"github.com/JulienPalard/TheodoreServer/pkg/broker"
	"github.com/JulienPalard/TheodoreServer/pkg/logging"
)

type Daemon struct {
	server *http.Server
	l      net.Listener
	doneCh chan struct{}

	broker *broker.Broker

	// startDate is the broker's construction time in RFC 1123 GMT form. It
	// never changes for the lifetime of the process; clients compare it to
	// the one they recorded to detect that the daemon restarted under them.
	startDate string
}

// New creates a new Daemon and attaches the following handlers:
//
// * GET /stats: point-in-time statistics for one channel.
// * GET /: watch several channels at once; the first message wins.
// * GET /{channel}: long-poll one message from one channel.
// * POST /{channel}: push the request body to a channel.
//
// A type-safe client for this server can be found in the `pkg/client` package.
func New(listenAddr string) (srv *Daemon, err error) {
	srv = new(Daemon)
	srv.broker = broker.New()
	srv.startDate = srv.broker.Started().UTC().Format(http.TimeFormat)

	r := mux.NewRouter()

	// Set a unique request ID.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Set("X-Request-ID", uuid.New()[:8])
			next.ServeHTTP(w, r)
		})
	})

	// The fixed paths are registered first, so "stats" is reserved for
	// reading statistics. A channel literally named stats can still be
	// pushed to: POST /stats falls through to the push handler.
	r.HandleFunc("/stats", srv.statsHandler()).Methods("GET")
	r.HandleFunc("/", srv.multiHandler()).Methods("GET")
	r.HandleFunc("/{channel}", srv.getHandler()).Methods("GET")
	r.HandleFunc("/{channel}", srv.pushHandler()).Methods("POST")

	srv.doneCh = make(chan struct{})
	srv.server = &http.Server{
		Handler: r,
		// No read or write timeouts: a retrieval long-polls for as long as
		// the client cares to wait.
	}

	srv.l, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}

	return srv, nil
}

// Serve starts the server and blocks until the server is closed, either
// explicitly via Shutdown, or due to a fault condition. It propagates the
// non-nil err return value from http.Serve.
func (s *Daemon) Serve() error {
	select {
	case <-s.doneCh:
		return fmt.Errorf("tried to reuse a stopped server")
	default:
	}

	logging.S().Infow("daemon listening", "addr", s.Addr())
	return s.server.Serve(s.l)
}

func (s *Daemon) Addr() string {
	return s.l.Addr().String()
}

func (s *Daemon) Port() int {
	return s.l.Addr().(*net.TCPAddr).Port
}

// Shutdown stops listening and waits for in-flight requests to finish, until
// ctx expires. Parked long-polls count as in-flight and are not interrupted;
// when some remain past the deadline, Shutdown returns the context error and
// the caller decides whether to Close.
func (s *Daemon) Shutdown(ctx context.Context) error {
	defer close(s.doneCh)
	return s.server.Shutdown(ctx)
}

// Close tears the server down without waiting, hanging up on any long-poll
// still parked. It is the escalation path after a Shutdown deadline expires.
func (s *Daemon) Close() error {
	return s.server.Close()
}
