// Package session holds the live service state of each actively-serving
// player: the open orders with their expiry timers and the recurring order
// arrival schedule. Sessions are process-local and deliberately volatile; a
// server restart drops them all while the persisted active flag survives.
package session
