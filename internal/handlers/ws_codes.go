// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the match handler. These give
// clients more specific reasons for closure than the standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Provided auth token was invalid or expired.
	NotParticipantError   = 3002 // Authenticated user holds no seat and the match is not open.
	MatchConcludedError   = 3003 // Target match has already reached a terminal state.
)
