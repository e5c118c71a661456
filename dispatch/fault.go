package dispatch

import "fmt"

// Fault is an application-level failure.  Handlers return a *Fault to
// control the error code and message embedded verbatim in the fault
// response body.
type Fault struct {
	Code    string
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// NewFault creates an application fault with printf-style message formatting.
func NewFault(code, format string, parameters ...interface{}) *Fault {
	return &Fault{
		Code:    code,
		Message: fmt.Sprintf(format, parameters...),
	}
}
