package live

import (
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

// ErrSessionClosed is returned by send methods after Close.
var ErrSessionClosed = errors.New("live: session closed")

// Error is a connection-level failure: a rejected handshake or a close
// frame from the server.
type Error struct {
	// Code is the HTTP status of a rejected handshake, or the WebSocket
	// close code the server sent.
	Code int

	// Message is the server's reason, when it gave one.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("live: %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("live: connection failed with code %d", e.Code)
}

// readError normalizes a read failure. Server close frames become
// *Error; everything else is wrapped as-is.
func readError(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return &Error{Code: ce.Code, Message: ce.Text}
	}
	return fmt.Errorf("live: read: %w", err)
}
