package chaindata

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// MetaplexProgramID is the Metaplex Token Metadata program.
const MetaplexProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

// tokenMetadata is the on-chain name/symbol/uri for a mint.
type tokenMetadata struct {
	Name   string
	Symbol string
	URI    string
}

// deriveMetadataPDA derives the Metaplex metadata account address for a mint.
// Seeds: ["metadata", metaplex_program_id, mint].
func deriveMetadataPDA(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return ""
	}
	programBytes, err := base58.Decode(MetaplexProgramID)
	if err != nil {
		return ""
	}

	if len(mintBytes) != 32 || len(programBytes) != 32 {
		return ""
	}

	seeds := [][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}

	return derivePDA(seeds, programBytes)
}

// derivePDA finds the first bump seed whose sha256 hash lands off the
// ed25519 curve, per the Solana program-derived-address algorithm.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}

	return ""
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// parseMetadata parses a Metaplex Token Metadata account.
// Layout: key u8 (4 = MetadataV1), updateAuthority pubkey, mint pubkey,
// then borsh strings name/symbol/uri, each a little-endian u32 length
// prefix followed by NUL-padded bytes.
func parseMetadata(decoded []byte) (tokenMetadata, bool) {
	var meta tokenMetadata

	if len(decoded) < 100 || decoded[0] != 4 {
		return meta, false
	}

	offset := 1 + 32 + 32

	name, next, ok := readBorshString(decoded, offset, 100)
	if !ok {
		return meta, false
	}
	meta.Name = name
	offset = next

	symbol, next, ok := readBorshString(decoded, offset, 20)
	if !ok {
		return meta, true
	}
	meta.Symbol = symbol
	offset = next

	uri, _, ok := readBorshString(decoded, offset, 250)
	if ok {
		meta.URI = uri
	}

	return meta, true
}

func readBorshString(data []byte, offset, maxLen int) (string, int, bool) {
	if offset+4 > len(data) {
		return "", offset, false
	}
	length := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	if length > maxLen || offset+length > len(data) {
		return "", offset, false
	}

	s := strings.TrimRight(string(data[offset:offset+length]), "\x00")
	return s, offset + length, true
}
