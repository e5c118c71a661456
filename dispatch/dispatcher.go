package dispatch

import (
	"errors"
	"fmt"

	"github.com/go-kit/kit/log"
	"github.com/netkea/pnpcommon/logging"
	"github.com/netkea/pnpcommon/pnp"
)

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// Logger receives dispatch events.  Defaults to logging.DefaultLogger().
	Logger log.Logger

	// Registry supplies the handler registrations.  Required.
	Registry *Registry

	// Measures receives dispatch metrics.  Defaults to NewNopMeasures().
	Measures *Measures
}

// Dispatcher orchestrates single request/response exchanges.  It holds no
// per-request state, so one instance serves any number of concurrent
// callers once its registry is populated.
type Dispatcher struct {
	logger   log.Logger
	registry *Registry
	measures Measures
}

// NewDispatcher constructs a Dispatcher from the given options.  A nil
// registry panics: a server without registrations is a startup programming
// error, never a runtime one.
func NewDispatcher(o DispatcherOptions) *Dispatcher {
	if o.Registry == nil {
		panic("dispatch: a Dispatcher requires a Registry")
	}

	logger := o.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	measures := NewNopMeasures()
	if o.Measures != nil {
		measures = *o.Measures
	}

	return &Dispatcher{
		logger:   logger,
		registry: o.Registry,
		measures: measures,
	}
}

// Handle processes one raw agent message and returns the raw response
// document.  It never fails and never panics: any byte sequence in yields a
// well-formed PnP XML document out, since agents cannot interpret anything
// else.  All protocol and handler errors are converted to fault responses
// at this boundary.
func (d *Dispatcher) Handle(raw []byte) []byte {
	d.measures.Messages.Add(1)

	envelope, err := pnp.Decode(raw)
	if err != nil {
		return d.decodeFault(err)
	}

	correlator, err := pnp.ExtractCorrelator(envelope)
	if err != nil {
		// the one genuinely degraded case: the agent cannot match this
		// response to its request
		logging.Warn(d.logger,
			logging.ServiceKey(), envelope.Body.Service,
		).Log(logging.MessageKey(), "message body has no correlator")

		return d.fault(&pnp.Envelope{Version: envelope.Version, UDI: envelope.UDI},
			pnp.FaultMissingCorrelator, err.Error())
	}

	handler, err := d.registry.Resolve(envelope.Body.Service, envelope.Body.Kind)
	if err != nil {
		return d.resolveFault(envelope, err)
	}

	body, err := d.invoke(handler, envelope)
	if err != nil {
		d.measures.ApplicationFaults.Add(1)

		var fault *Fault
		if errors.As(err, &fault) {
			body = pnp.NewFault(fault.Code, fault.Message)
		} else {
			body = pnp.NewFault(pnp.FaultApplicationError, err.Error())
		}

		logging.Error(d.logger,
			logging.ServiceKey(), envelope.Body.Service,
			logging.CorrelatorKey(), correlator,
		).Log(logging.MessageKey(), "handler failed", logging.ErrorKey(), err)
	} else {
		logging.Debug(d.logger,
			logging.ServiceKey(), envelope.Body.Service,
			logging.CorrelatorKey(), correlator,
		).Log(logging.MessageKey(), "message dispatched")
	}

	return pnp.Encode(pnp.NewResponse(envelope, body))
}

// invoke runs a handler, converting a panic into an ordinary error so that
// no application bug can escape the dispatch boundary.
func (d *Dispatcher) invoke(handler Handler, envelope *pnp.Envelope) (body pnp.Body, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("handler panic: %v", recovered)
		}
	}()

	return handler.HandleMessage(envelope)
}

// decodeFault frames a parse failure.  Nothing about the request is
// trusted, so the fault is uncorrelated.
func (d *Dispatcher) decodeFault(err error) []byte {
	code := pnp.FaultSchemaViolation
	if errors.Is(err, pnp.ErrMalformedXML) {
		code = pnp.FaultMalformedXML
	}

	return d.fault(&pnp.Envelope{Version: pnp.Version}, code, err.Error())
}

// resolveFault frames a registry lookup failure, preserving the request's
// correlator so the agent can complete its transaction.
func (d *Dispatcher) resolveFault(request *pnp.Envelope, err error) []byte {
	var (
		code    = pnp.FaultUnhandledService
		service = request.Body.Service.FriendlyName()
	)

	if errors.Is(err, ErrUnknownService) {
		code = pnp.FaultUnknownService
		service = request.Body.RawNamespace
	}

	body := pnp.AttachCorrelator(request.Body.Correlator, pnp.NewFault(code, fmt.Sprintf("%s: %s", err, service)))
	d.measures.Faults.Add(1)

	logging.Error(d.logger,
		logging.ServiceKey(), service,
		logging.CorrelatorKey(), request.Body.Correlator,
	).Log(logging.MessageKey(), "cannot resolve handler", logging.ErrorKey(), err)

	return pnp.Encode(&pnp.Envelope{
		Version: request.Version,
		UDI:     request.UDI,
		Body:    body,
	})
}

// fault frames an uncorrelated protocol fault.
func (d *Dispatcher) fault(envelope *pnp.Envelope, code, message string) []byte {
	d.measures.Faults.Add(1)

	logging.Error(d.logger).Log(
		logging.MessageKey(), "protocol fault",
		"code", code,
		logging.ErrorKey(), message,
	)

	version := envelope.Version
	if len(version) == 0 {
		version = pnp.Version
	}

	return pnp.Encode(&pnp.Envelope{
		Version: version,
		UDI:     envelope.UDI,
		Body:    pnp.NewFault(code, message),
	})
}
