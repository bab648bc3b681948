// Package api exposes the REST surface of the game: account registration and
// login, the ingredient/recipe catalog, stock purchases, the laboratory's
// recipe discovery, transaction history and the service status fetch. The
// realtime service itself runs over the /ws endpoint handled by the gateway.
package api
