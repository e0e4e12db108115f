// Package transport owns the UDP endpoint for one game session.
//
// It exposes a deadline-bounded send and a continuously running receive loop
// that operate concurrently on the same socket. No reliability is layered on
// top: datagrams may be dropped or reordered by the network, and a successful
// send only means the local stack accepted the payload.
package transport
