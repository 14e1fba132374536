// Package validation provides request-input validation for the lock service.
package validation

import (
	"fmt"
	"math/big"
	"regexp"
)

var (
	// slugRegex matches URL-safe lock ids.
	slugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

	// evmAddressRegex matches Ethereum-style addresses (0x followed by 40 hex chars)
	evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

	// txHashRegex matches transaction hashes (0x followed by 64 hex chars)
	txHashRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
)

// ValidateSlug validates a lock id: 1-64 characters, letters, digits,
// hyphen, underscore.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("invalid slug: %s (expected 1-64 URL-safe characters)", slug)
	}
	return nil
}

// ValidateAddress validates a 20-byte EVM account address in hex form.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !evmAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid address format: %s (expected 0x followed by 40 hex characters)", address)
	}
	return nil
}

// ValidateTxHash validates a 32-byte transaction hash in hex form.
func ValidateTxHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("transaction hash cannot be empty")
	}
	if !txHashRegex.MatchString(hash) {
		return fmt.Errorf("invalid transaction hash format: %s (expected 0x followed by 64 hex characters)", hash)
	}
	return nil
}

// ValidatePrice validates a decimal price string against inclusive bounds.
func ValidatePrice(price string, min, max *big.Rat) error {
	if price == "" {
		return fmt.Errorf("price cannot be empty")
	}
	value, ok := new(big.Rat).SetString(price)
	if !ok {
		return fmt.Errorf("invalid price format: %s", price)
	}
	if value.Sign() <= 0 {
		return fmt.Errorf("price must be greater than 0, got: %s", price)
	}
	if min != nil && value.Cmp(min) < 0 {
		return fmt.Errorf("price must be at least %s, got: %s", min.RatString(), price)
	}
	if max != nil && value.Cmp(max) > 0 {
		return fmt.Errorf("price cannot exceed %s, got: %s", max.RatString(), price)
	}
	return nil
}
