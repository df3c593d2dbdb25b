// Package connector carries Buttplug message envelopes over WebSocket.
//
// Listener is an http.Handler: each upgraded connection gets a uuid and a
// server.Session. Inbound text frames are decoded as envelopes and handled
// in order; replies and events go out as single-message envelopes through
// one writer goroutine per connection.
//
// Client dials a server, delivers decoded inbound messages on a channel
// and optionally reconnects with exponential backoff and jitter.
package connector
