package chaindata

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// MintAccountSize is the SPL Token Mint account length in bytes.
const MintAccountSize = 82

// mintAccount is the parsed SPL Token Mint layout:
// mintAuthority Option<Pubkey> (4+32), supply u64, decimals u8,
// isInitialized u8, freezeAuthority Option<Pubkey> (4+32).
type mintAccount struct {
	MintAuthority string // base58, empty when the authority was renounced
	Supply        uint64
	Decimals      int
	Initialized   bool
}

func parseMintAccount(decoded []byte) (mintAccount, error) {
	var m mintAccount

	if len(decoded) < MintAccountSize {
		return m, fmt.Errorf("mint data too short: %d bytes", len(decoded))
	}

	if binary.LittleEndian.Uint32(decoded[0:4]) == 1 {
		m.MintAuthority = base58.Encode(decoded[4:36])
	}

	m.Supply = binary.LittleEndian.Uint64(decoded[36:44])
	m.Decimals = int(decoded[44])
	m.Initialized = decoded[45] == 1

	return m, nil
}
