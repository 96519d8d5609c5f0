package solana

import "errors"

// ErrConnectionLost is returned when the WebSocket transport is closed or
// unavailable. Subscribers retry with backoff; it is never fatal to the
// decision pipeline.
var ErrConnectionLost = errors.New("connection lost")
