// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the gateway. Guest-identity failures
// happen before the upgrade and surface as plain HTTP errors, so only
// post-upgrade conditions get a code here.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
)
