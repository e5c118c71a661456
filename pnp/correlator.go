package pnp

import "errors"

// ErrMissingCorrelator indicates a message body with no correlator attribute.
// Replies to such messages cannot be matched by the agent, which makes this
// the one genuinely degraded failure mode of the protocol.
var ErrMissingCorrelator = errors.New("pnp: message body has no correlator")

// ExtractCorrelator returns the correlator of the envelope's service body.
// Correlators allow agents to pipeline multiple outstanding exchanges, so
// extraction is a distinct, separately tested step rather than inlined
// field access at the call sites.
func ExtractCorrelator(e *Envelope) (string, error) {
	if len(e.Body.Correlator) == 0 {
		return "", ErrMissingCorrelator
	}

	return e.Body.Correlator, nil
}

// AttachCorrelator returns a copy of the body carrying the given correlator.
// It is a pure function and never fails.
func AttachCorrelator(correlator string, b Body) Body {
	b.Correlator = correlator
	return b
}
