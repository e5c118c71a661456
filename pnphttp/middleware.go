package pnphttp

import (
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/justinas/alice"
	"github.com/netkea/pnpcommon/logging"
	"github.com/segmentio/ksuid"
)

// RequestIDHeader carries the identifier assigned to each inbound exchange.
const RequestIDHeader = "X-Pnp-Request-Id"

// RequestID decorates each request with a ksuid, echoed on the response,
// so that agent exchanges can be tied together across log entries.
func RequestID() alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			id := request.Header.Get(RequestIDHeader)
			if len(id) == 0 {
				id = ksuid.New().String()
				request.Header.Set(RequestIDHeader, id)
			}

			response.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(response, request)
		})
	}
}

// RequestLogging emits one debug entry per exchange with the method, URI,
// request id and elapsed time.
func RequestLogging(logger log.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			start := time.Now()
			next.ServeHTTP(response, request)

			logging.Debug(logger).Log(
				logging.MessageKey(), "agent exchange",
				"requestID", request.Header.Get(RequestIDHeader),
				"method", request.Method,
				"uri", request.RequestURI,
				"duration", time.Since(start),
			)
		})
	}
}

// NewChain assembles the standard middleware for PnP endpoints.
func NewChain(logger log.Logger) alice.Chain {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return alice.New(
		RequestID(),
		RequestLogging(logger),
	)
}
