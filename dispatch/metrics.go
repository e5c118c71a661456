package dispatch

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/provider"
)

const (
	MessageCounter          = "pnp_message_count"
	FaultCounter            = "pnp_fault_count"
	ApplicationFaultCounter = "pnp_application_fault_count"
)

// Measures holds the dispatch metric objects for runtime consumption.
type Measures struct {
	// Messages counts every inbound message, valid or not.
	Messages metrics.Counter

	// Faults counts protocol-level fault responses: malformed input, schema
	// violations, missing correlators and unresolvable services.
	Faults metrics.Counter

	// ApplicationFaults counts handler failures embedded in fault responses.
	ApplicationFaults metrics.Counter
}

// NewMeasures constructs a Measures given a go-kit metrics Provider.
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Messages:          p.NewCounter(MessageCounter),
		Faults:            p.NewCounter(FaultCounter),
		ApplicationFaults: p.NewCounter(ApplicationFaultCounter),
	}
}

// NewNopMeasures constructs a Measures that discards all updates.
func NewNopMeasures() Measures {
	return Measures{
		Messages:          discard.NewCounter(),
		Faults:            discard.NewCounter(),
		ApplicationFaults: discard.NewCounter(),
	}
}
