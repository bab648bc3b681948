// Package service implements the order resolution engine: the state machine
// that takes each open order through exactly one terminal transition (served,
// rejected or expired) and applies the matching player-ledger and inventory
// mutations.
//
// The concurrency rule is claim-first: every terminal transition begins by
// atomically removing the order from its session. A serve racing an expiry
// timer can therefore never both settle the same order.
package service
