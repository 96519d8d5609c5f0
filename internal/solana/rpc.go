package solana

import "context"

// RPCClient defines the Solana RPC HTTP surface the sniper consumes.
// Every call may fail transiently; callers treat failure as "unknown",
// never as fatal.
type RPCClient interface {
	// GetAccountInfo retrieves account info by public key.
	// Returns nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenSupply retrieves the total supply of a token mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenAmount, error)

	// GetBalance retrieves the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetTransaction retrieves a transaction by signature.
	// Returns nil if the transaction is not found.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)

	// GetBlockTime retrieves the estimated production time of a block.
	// Returns nil if the node has no timestamp for the slot.
	GetBlockTime(ctx context.Context, slot int64) (*int64, error)

	// GetTokenLargestAccounts retrieves the largest token accounts for a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)

	// CountTokenHolders counts token accounts for a mint with a nonzero
	// balance, via getProgramAccounts with dataSize and memcmp filters.
	CountTokenHolders(ctx context.Context, mint string) (int, error)

	// GetProgramAccounts retrieves accounts owned by a program,
	// narrowed by server-side filters.
	GetProgramAccounts(ctx context.Context, program string, filters []AccountFilter) ([]ProgramAccount, error)
}

// ProgramAccount is one entry from getProgramAccounts.
type ProgramAccount struct {
	Pubkey   string
	Lamports uint64
	Owner    string
	Data     string // base64 encoded
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
	RentEpoch  uint64
}

// TokenAmount represents a token quantity with its decimal precision.
type TokenAmount struct {
	Amount   uint64 // raw amount in smallest units
	Decimals int
}

// TokenAccountBalance is one entry from getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address string
	Amount  uint64
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err         interface{}
	LogMessages []string
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}
