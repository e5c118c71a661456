package pnphttp

import (
	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

// Paths served for PnP agents.  Agents probe HELLO first, then post work
// queries and work results.
const (
	HelloPath        = "/pnp/HELLO"
	WorkRequestPath  = "/pnp/WORK-REQUEST"
	WorkResponsePath = "/pnp/WORK-RESPONSE"
)

// RouterOptions configures the PnP route set.
type RouterOptions struct {
	// Logger receives shell-level events.  Defaults to logging.DefaultLogger().
	Logger log.Logger

	// Dispatcher handles agent messages.  Required.
	Dispatcher Dispatcher

	// MaxRequestBody caps the bytes read from an agent.
	MaxRequestBody int64
}

// NewRouter builds the gorilla router exposing the PnP endpoints, with the
// standard middleware chain applied to the message-bearing routes.  Both
// work endpoints feed the same dispatcher; the message body, not the path,
// selects the handler.
func NewRouter(o RouterOptions) *mux.Router {
	var (
		router = mux.NewRouter()
		work   = NewChain(o.Logger).Then(NewHandler(HandlerOptions{
			Logger:         o.Logger,
			Dispatcher:     o.Dispatcher,
			MaxRequestBody: o.MaxRequestBody,
		}))
	)

	router.Handle(HelloPath, NewHelloHandler()).Methods("GET")
	router.Handle(WorkRequestPath, work).Methods("POST")
	router.Handle(WorkResponsePath, work).Methods("POST")

	return router
}
