package pnp

import "fmt"

const (
	// Namespace is the namespace of the outer pnp envelope element.
	Namespace = "urn:cisco:pnp"

	// NamespacePrefix is the common prefix of all service body namespaces.
	NamespacePrefix = "urn:cisco:pnp:"

	// Version is the protocol version emitted on server-built envelopes.
	Version = "1.0"
)

// Kind is the work type of a message body, given by the body element's
// local name.  Agents post requests for work as info messages, receive work
// as requests, and report results as responses.
type Kind int

const (
	KindRequest Kind = iota
	KindResponse
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	case KindInfo:
		return "info"
	}

	return InvalidServiceTypeString
}

// StringToKind converts a body element local name into a Kind.
func StringToKind(value string) (Kind, error) {
	switch value {
	case "request":
		return KindRequest, nil
	case "response":
		return KindResponse, nil
	case "info":
		return KindInfo, nil
	}

	return Kind(-1), fmt.Errorf("invalid body element: %s", value)
}

// Body is the single service-specific child of an Envelope.  Content holds
// the body element's inner XML verbatim; typed builders in this package
// produce Content for the work the server hands to agents.
type Body struct {
	Service ServiceType
	Kind    Kind

	// RawNamespace preserves the namespace exactly as received.  It is only
	// consulted when Service is ServiceUnknown, so that faults can name the
	// offending namespace.
	RawNamespace string

	// Correlator is the request-scoped identifier that must round-trip
	// between a message and its reply.
	Correlator string

	// Success mirrors the success attribute.  Nil means the attribute is
	// absent, which is the case for all request and info bodies.
	Success *bool

	Content []byte
}

// Namespace returns the wire namespace for this body.
func (b Body) Namespace() string {
	if b.Service == ServiceUnknown {
		return b.RawNamespace
	}

	return b.Service.Namespace()
}

// Envelope is the outer pnp element wrapping protocol metadata and exactly
// one service body.  Envelopes are created per exchange and never shared
// across requests.
type Envelope struct {
	Version  string
	UDI      string
	Username string
	Password string
	Body     Body
}

// NewReply builds a response body in the same service as the given request,
// carrying the supplied inner XML.  Use the typed builders instead when the
// reply is work for the agent in a different service.
func NewReply(request *Envelope, content []byte) Body {
	return Body{
		Service: request.Body.Service,
		Kind:    KindResponse,
		Content: content,
	}
}

// NewResponse builds the envelope answering the given request.  The
// correlator and UDI of the request are carried over, and response bodies
// gain a success attribute unless one was already set by the caller.  These
// invariants are enforced here so that no hand-assembled response can lose
// its correlation.
func NewResponse(request *Envelope, body Body) *Envelope {
	body = AttachCorrelator(request.Body.Correlator, body)
	if body.Kind == KindResponse && body.Success == nil {
		success := true
		body.Success = &success
	}

	version := request.Version
	if len(version) == 0 {
		version = Version
	}

	return &Envelope{
		Version: version,
		UDI:     request.UDI,
		Body:    body,
	}
}
