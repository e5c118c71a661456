package dispatch

import (
	"errors"
	"fmt"

	"github.com/netkea/pnpcommon/pnp"
)

var (
	// ErrUnknownService indicates a service namespace that is not part of
	// the PnP protocol at all.
	ErrUnknownService = errors.New("dispatch: service is not part of the PnP protocol")

	// ErrUnhandledService indicates a valid protocol service for which the
	// embedding application registered no handler.
	ErrUnhandledService = errors.New("dispatch: no handler registered for service")
)

// Handler is an application-supplied capability invoked for messages
// matching its registration key.  It receives the full decoded envelope and
// returns the body of the reply, which may belong to any service (a
// work-info query is typically answered with work from another service).
//
// A handler failure is embedded in a fault response.  Returning a *Fault
// controls the fault code and message; any other error is reported under a
// generic application error code.
type Handler interface {
	HandleMessage(request *pnp.Envelope) (pnp.Body, error)
}

// HandlerFunc is a function type that implements Handler.
type HandlerFunc func(*pnp.Envelope) (pnp.Body, error)

func (f HandlerFunc) HandleMessage(request *pnp.Envelope) (pnp.Body, error) {
	return f(request)
}

// Key identifies a handler registration: the service of the message body
// together with its work type.  Lookup is exact match on both; the protocol
// defines a fixed, finite set of combinations, so there is no wildcard or
// prefix matching.
type Key struct {
	Service pnp.ServiceType
	Kind    pnp.Kind
}

// Registry maps registration keys to handlers.  A Registry is populated
// once, before the server begins accepting traffic, and is read-only
// thereafter; reads are deliberately unsynchronized.  Applications that
// want runtime mutation must layer their own copy-on-write discipline on
// top.
type Registry struct {
	handlers map[Key]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Key]Handler),
	}
}

// Register associates a handler with a (service, kind) key, overwriting any
// prior registration for the same key.  Last registration wins, which lets
// an embedding application override default behavior.
//
// Registering an invalid service or a nil handler is a programming error
// and panics, so that a corrupt registry fails fast at startup rather than
// during request handling.
func (r *Registry) Register(service pnp.ServiceType, kind pnp.Kind, handler Handler) {
	if service.Namespace() == "" {
		panic(fmt.Sprintf("dispatch: cannot register invalid service type %d", service))
	}

	if handler == nil {
		panic(fmt.Sprintf("dispatch: nil handler registered for %s %s", service, kind))
	}

	r.handlers[Key{Service: service, Kind: kind}] = handler
}

// Resolve looks up the handler for a (service, kind) key.  ErrUnknownService
// is returned for services outside the protocol and ErrUnhandledService for
// protocol services with no registration; dispatch maps the two to distinct
// fault codes.
func (r *Registry) Resolve(service pnp.ServiceType, kind pnp.Kind) (Handler, error) {
	if service == pnp.ServiceUnknown {
		return nil, ErrUnknownService
	}

	handler, ok := r.handlers[Key{Service: service, Kind: kind}]
	if !ok {
		return nil, ErrUnhandledService
	}

	return handler, nil
}

// Len returns the count of registered handlers.
func (r *Registry) Len() int {
	return len(r.handlers)
}
