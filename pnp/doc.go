// Package pnp provides a simple marshal/un-marshal interface for the Cisco
// Network Plug-and-Play XML protocol, along with typed builders for the
// service bodies a PnP server sends to agents.
package pnp
