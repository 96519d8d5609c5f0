package solana

import "context"

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeProgram subscribes to account updates owned by a program,
	// optionally narrowed by server-side filters.
	SubscribeProgram(ctx context.Context, filter ProgramFilter) (<-chan ProgramNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// ProgramFilter defines a programSubscribe request.
type ProgramFilter struct {
	// Program is the owning program ID to watch.
	Program string
	// Filters are server-side account filters (data size, byte-offset match).
	Filters []AccountFilter
}

// AccountFilter is one server-side filter entry. Exactly one field is set.
type AccountFilter struct {
	DataSize *uint64
	Memcmp   *MemcmpFilter
}

// MemcmpFilter matches account data bytes at an offset.
type MemcmpFilter struct {
	Offset int
	Bytes  string // base58-encoded comparison bytes
}

// ProgramNotification is one programSubscribe update.
type ProgramNotification struct {
	Pubkey   string // account that changed
	Owner    string // owning program
	Lamports uint64
	Data     string // base64-encoded account data
	Slot     int64
}
