// Package pnphttp is the HTTP shell around the PnP dispatch layer: route
// setup, request plumbing and server construction.  It owns all socket I/O
// so that the protocol core never blocks.
package pnphttp
