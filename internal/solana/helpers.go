package solana

import "encoding/base64"

// DecodeAccountData decodes account data returned with base64 encoding.
func DecodeAccountData(data string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(data)
}
