// Package chains classifies payment networks into blockchain families
// and offers format checks for the payer and transaction fields of
// verified payment events.
package chains

import (
	"strings"

	xpay "github.com/xpaysh/xpay-go"
	"github.com/xpaysh/xpay-go/chains/evm"
	"github.com/xpaysh/xpay-go/chains/svm"
)

// Family classifies a network into a blockchain family.
type Family string

const (
	FamilyEVM     Family = "evm"
	FamilySolana  Family = "solana"
	FamilyUnknown Family = "unknown"
)

// evmNetworks are the plain network names the payment service uses for
// EVM chains.
var evmNetworks = map[string]struct{}{
	"ethereum":     {},
	"base":         {},
	"base-sepolia": {},
	"polygon":      {},
	"arbitrum":     {},
	"optimism":     {},
	"avalanche":    {},
	"sepolia":      {},
}

var solanaNetworks = map[string]struct{}{
	"solana":         {},
	"solana-devnet":  {},
	"solana-testnet": {},
}

// FamilyOf maps a network identifier to its family. Both plain names
// ("base", "solana") and CAIP-2 identifiers ("eip155:8453",
// "solana:mainnet") are recognized.
func FamilyOf(network xpay.Network) Family {
	name := strings.ToLower(strings.TrimSpace(string(network)))

	if namespace, _, err := network.Parse(); err == nil {
		switch strings.ToLower(namespace) {
		case "eip155":
			return FamilyEVM
		case "solana":
			return FamilySolana
		}
		return FamilyUnknown
	}

	if _, ok := evmNetworks[name]; ok {
		return FamilyEVM
	}
	if _, ok := solanaNetworks[name]; ok {
		return FamilySolana
	}
	return FamilyUnknown
}

// ValidateEvent checks that a payment event's payer address and
// transaction hash are well-formed for the network it claims.
//
// This is a format sanity check, not an on-chain verification: a passing
// event still only proves what the webhook signature proves. Events on
// unrecognized networks pass, since the SDK cannot know their formats.
func ValidateEvent(event *xpay.PaymentEvent) error {
	if event == nil {
		return xpay.NewError(xpay.ErrCodeInvalidConfig, "nil payment event", nil)
	}

	switch FamilyOf(event.Network) {
	case FamilyEVM:
		if !evm.IsValidAddress(event.Payer) {
			return xpay.NewError(xpay.ErrCodeInvalidConfig,
				"payer is not a valid EVM address",
				map[string]interface{}{"payer": event.Payer, "network": string(event.Network)})
		}
		if event.TxHash != "" && !evm.IsValidTxHash(event.TxHash) {
			return xpay.NewError(xpay.ErrCodeInvalidConfig,
				"txHash is not a valid EVM transaction hash",
				map[string]interface{}{"txHash": event.TxHash, "network": string(event.Network)})
		}
	case FamilySolana:
		if !svm.IsValidAddress(event.Payer) {
			return xpay.NewError(xpay.ErrCodeInvalidConfig,
				"payer is not a valid Solana address",
				map[string]interface{}{"payer": event.Payer, "network": string(event.Network)})
		}
		if event.TxHash != "" && !svm.IsValidTxSignature(event.TxHash) {
			return xpay.NewError(xpay.ErrCodeInvalidConfig,
				"txHash is not a valid Solana transaction signature",
				map[string]interface{}{"txHash": event.TxHash, "network": string(event.Network)})
		}
	}
	return nil
}
