package pnp

import (
	"encoding/xml"
	"errors"
	"fmt"
)

var (
	// ErrMalformedXML indicates input that is not a well-formed XML document.
	ErrMalformedXML = errors.New("pnp: input is not a well-formed XML document")
)

// SchemaError indicates a well-formed XML document that violates the
// required PnP structure, e.g. a missing or duplicated service body.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "pnp: schema violation: " + e.Reason
}

func schemaErrorf(format string, parameters ...interface{}) error {
	return &SchemaError{Reason: fmt.Sprintf(format, parameters...)}
}

// xmlBody is the wire representation of a service body.  The XMLName value
// carries both the work type (local name) and the service (namespace).
type xmlBody struct {
	XMLName    xml.Name
	Correlator string `xml:"correlator,attr,omitempty"`
	Success    string `xml:"success,attr,omitempty"`
	Content    []byte `xml:",innerxml"`
}

// xmlEnvelope is the wire representation of the outer pnp element.  During
// decoding every child element lands in Bodies so that the exactly-one-body
// invariant can be checked.
type xmlEnvelope struct {
	XMLName  xml.Name
	UDI      string    `xml:"udi,attr,omitempty"`
	Version  string    `xml:"version,attr,omitempty"`
	Username string    `xml:"username,attr,omitempty"`
	Password string    `xml:"password,attr,omitempty"`
	Bodies   []xmlBody `xml:",any"`
}

// Decode parses a raw PnP XML document into an Envelope.
//
// Decode fails with an error wrapping ErrMalformedXML when the input is not
// well-formed XML, and with a *SchemaError when the document is well-formed
// but structurally invalid.  Attribute ordering and whitespace are
// irrelevant; required elements and their nesting are not.
//
// A body namespace outside the protocol is not a decode error: the envelope
// is returned with Service set to ServiceUnknown and the namespace preserved,
// leaving the rejection to dispatch code.
func Decode(raw []byte) (*Envelope, error) {
	var wire xmlEnvelope
	if err := xml.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedXML, err)
	}

	if wire.XMLName.Local != "pnp" {
		return nil, schemaErrorf("root element must be pnp, got %s", wire.XMLName.Local)
	}

	if wire.XMLName.Space != Namespace {
		return nil, schemaErrorf("root element must be in namespace %s", Namespace)
	}

	switch {
	case len(wire.Bodies) == 0:
		return nil, schemaErrorf("envelope carries no service body")
	case len(wire.Bodies) > 1:
		return nil, schemaErrorf("envelope carries %d service bodies, exactly one is required", len(wire.Bodies))
	}

	raw0 := wire.Bodies[0]
	if len(raw0.XMLName.Space) == 0 {
		return nil, schemaErrorf("service body %s has no namespace", raw0.XMLName.Local)
	}

	kind, err := StringToKind(raw0.XMLName.Local)
	if err != nil {
		return nil, schemaErrorf("unrecognized service body element: %s", raw0.XMLName.Local)
	}

	body := Body{
		Service:      NamespaceToServiceType(raw0.XMLName.Space),
		Kind:         kind,
		RawNamespace: raw0.XMLName.Space,
		Correlator:   raw0.Correlator,
		Content:      raw0.Content,
	}

	switch raw0.Success {
	case "":
	case "1", "true":
		success := true
		body.Success = &success
	default:
		success := false
		body.Success = &success
	}

	return &Envelope{
		Version:  wire.Version,
		UDI:      wire.UDI,
		Username: wire.Username,
		Password: wire.Password,
		Body:     body,
	}, nil
}

// encodeFallback is emitted if an envelope cannot be marshalled.  Envelopes
// built through this package always marshal, so agents should never see it.
const encodeFallback = `<pnp xmlns="urn:cisco:pnp" version="1.0">` +
	`<response xmlns="urn:cisco:pnp:fault">` +
	`<errorInfo><errorCode>` + FaultApplicationError + `</errorCode>` +
	`<errorMessage>response encoding failed</errorMessage></errorInfo>` +
	`</response></pnp>`

// Encode renders an envelope as a PnP XML document.  It does not fail:
// envelopes produced by the constructors in this package always serialize,
// and a static fault document stands in for the pathological case.
func Encode(e *Envelope) []byte {
	wire := xmlEnvelope{
		XMLName:  xml.Name{Space: Namespace, Local: "pnp"},
		UDI:      e.UDI,
		Version:  e.Version,
		Username: e.Username,
		Password: e.Password,
		Bodies: []xmlBody{
			{
				XMLName:    xml.Name{Space: e.Body.Namespace(), Local: e.Body.Kind.String()},
				Correlator: e.Body.Correlator,
				Success:    successAttribute(e.Body.Success),
				Content:    e.Body.Content,
			},
		},
	}

	data, err := xml.Marshal(&wire)
	if err != nil {
		return []byte(encodeFallback)
	}

	return data
}

func successAttribute(success *bool) string {
	switch {
	case success == nil:
		return ""
	case *success:
		return "1"
	default:
		return "0"
	}
}
