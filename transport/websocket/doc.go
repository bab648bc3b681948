// Package websocket is the realtime gateway. It authenticates each
// connection with a bearer token during the handshake, binds the
// player-initiated events to the resolution engine, and pushes order and
// service events back to the client. A transport disconnect tears down the
// in-memory session but leaves the persisted active flag untouched.
package websocket
