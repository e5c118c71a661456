package pnphttp

import (
	"io"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/netkea/pnpcommon/logging"
)

const (
	// ContentTypeXML is the content type of every PnP exchange.
	ContentTypeXML = "text/xml"

	// DefaultMaxRequestBody caps inbound message size when HandlerOptions
	// does not say otherwise.
	DefaultMaxRequestBody int64 = 1 << 20
)

// Dispatcher is the protocol entry point this package serves.  It never
// fails: all failure is encoded in the returned document.
type Dispatcher interface {
	Handle([]byte) []byte
}

// HandlerOptions configures a PnP message Handler.
type HandlerOptions struct {
	// Logger receives request-level events.  Defaults to logging.DefaultLogger().
	Logger log.Logger

	// Dispatcher handles decoded messages.  Required.
	Dispatcher Dispatcher

	// MaxRequestBody caps the bytes read from an agent.  Defaults to
	// DefaultMaxRequestBody.
	MaxRequestBody int64
}

// Handler is the http.Handler bridging agent POSTs to a Dispatcher.  The
// response is always HTTP 200 carrying a PnP document; protocol failures
// live inside the document, where agents look for them.
type Handler struct {
	logger         log.Logger
	dispatcher     Dispatcher
	maxRequestBody int64
}

func NewHandler(o HandlerOptions) *Handler {
	if o.Dispatcher == nil {
		panic("pnphttp: a Handler requires a Dispatcher")
	}

	logger := o.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	maxRequestBody := o.MaxRequestBody
	if maxRequestBody <= 0 {
		maxRequestBody = DefaultMaxRequestBody
	}

	return &Handler{
		logger:         logger,
		dispatcher:     o.Dispatcher,
		maxRequestBody: maxRequestBody,
	}
}

func (h *Handler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	message, err := io.ReadAll(io.LimitReader(request.Body, h.maxRequestBody))
	if err != nil {
		logging.Error(h.logger).Log(
			logging.MessageKey(), "unable to read agent request",
			logging.ErrorKey(), err,
		)

		// a truncated read still gets a protocol fault document
		message = nil
	}

	response.Header().Set("Content-Type", ContentTypeXML)
	if _, err := response.Write(h.dispatcher.Handle(message)); err != nil {
		logging.Error(h.logger).Log(
			logging.MessageKey(), "unable to write response",
			logging.ErrorKey(), err,
		)
	}
}

// NewHelloHandler produces the handler for the agent's initial HELLO probe,
// which expects an empty 200.
func NewHelloHandler() http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		response.WriteHeader(http.StatusOK)
	})
}
