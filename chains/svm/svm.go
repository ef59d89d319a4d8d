// Package svm validates Solana address and transaction signature
// formats.
package svm

import (
	solana "github.com/gagliardetto/solana-go"
)

// IsValidAddress reports whether s is a well-formed base58 Solana
// public key.
func IsValidAddress(s string) bool {
	if s == "" {
		return false
	}
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}

// IsValidTxSignature reports whether s is a well-formed base58 Solana
// transaction signature.
func IsValidTxSignature(s string) bool {
	if s == "" {
		return false
	}
	_, err := solana.SignatureFromBase58(s)
	return err == nil
}
