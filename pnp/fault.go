package pnp

import "encoding/xml"

// Fault codes emitted by the dispatch layer.  The PnP schema leaves the
// literal values to the server implementation; agents surface them verbatim.
const (
	FaultMalformedXML      = "MALFORMED_XML"
	FaultSchemaViolation   = "SCHEMA_VIOLATION"
	FaultMissingCorrelator = "MISSING_CORRELATOR"
	FaultUnknownService    = "UNKNOWN_SERVICE"
	FaultUnhandledService  = "UNHANDLED_SERVICE"
	FaultApplicationError  = "APPLICATION_ERROR"
)

type errorInfo struct {
	XMLName      xml.Name `xml:"errorInfo"`
	ErrorCode    string   `xml:"errorCode"`
	ErrorMessage string   `xml:"errorMessage"`
}

// NewFault builds the distinguished error service body used when the server
// cannot, or will not, perform the requested exchange.  Application handlers
// may also return one through dispatch by failing with a fault error; the
// code and message are embedded verbatim.
func NewFault(code, message string) Body {
	content, err := xml.Marshal(&errorInfo{
		ErrorCode:    code,
		ErrorMessage: message,
	})
	if err != nil {
		// two text elements cannot fail to marshal
		content = nil
	}

	success := false
	return Body{
		Service: ServiceFault,
		Kind:    KindResponse,
		Success: &success,
		Content: content,
	}
}
