// Package evm validates EVM address and transaction hash formats.
package evm

import (
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// IsValidAddress reports whether s is a well-formed 20-byte hex address.
func IsValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// ChecksumAddress returns the EIP-55 checksummed form of a valid address.
func ChecksumAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid EVM address: %s", s)
	}
	return common.HexToAddress(s).Hex(), nil
}

// IsValidTxHash reports whether s is a 32-byte hex transaction hash.
func IsValidTxHash(s string) bool {
	return txHashPattern.MatchString(s)
}
