// Package dispatch routes decoded PnP messages to registered application
// handlers and frames their results as protocol responses.  The dispatcher
// is the single entry point a server shell needs: it accepts raw bytes and
// always returns a well-formed PnP XML document, success or fault.
package dispatch
