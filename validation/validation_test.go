package validation

import (
	"math/big"
	"strings"
	"testing"
)

func TestValidateSlug(t *testing.T) {
	valid := []string{"a", "my-lock", "My_Lock_42", strings.Repeat("a", 64)}
	for _, slug := range valid {
		if err := ValidateSlug(slug); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", slug, err)
		}
	}

	invalid := []string{"", "has space", "slash/inside", "dot.inside", strings.Repeat("a", 65), "émoji"}
	for _, slug := range invalid {
		if err := ValidateSlug(slug); err == nil {
			t.Errorf("ValidateSlug(%q) = nil, want error", slug)
		}
	}
}

func TestValidateAddress(t *testing.T) {
	valid := []string{
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0x0000000000000000000000000000000000000000",
	}
	for _, addr := range valid {
		if err := ValidateAddress(addr); err != nil {
			t.Errorf("ValidateAddress(%q) = %v, want nil", addr, err)
		}
	}

	invalid := []string{
		"",
		"833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA0291",
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA029133",
		"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA0291g",
	}
	for _, addr := range invalid {
		if err := ValidateAddress(addr); err == nil {
			t.Errorf("ValidateAddress(%q) = nil, want error", addr)
		}
	}
}

func TestValidateTxHash(t *testing.T) {
	valid := "0x" + strings.Repeat("ab", 32)
	if err := ValidateTxHash(valid); err != nil {
		t.Errorf("ValidateTxHash(%q) = %v, want nil", valid, err)
	}

	invalid := []string{
		"",
		strings.Repeat("ab", 32),
		"0x" + strings.Repeat("ab", 31),
		"0x" + strings.Repeat("ab", 33),
		"0x" + strings.Repeat("zz", 32),
	}
	for _, hash := range invalid {
		if err := ValidateTxHash(hash); err == nil {
			t.Errorf("ValidateTxHash(%q) = nil, want error", hash)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	min := big.NewRat(1, 1)
	max := big.NewRat(10000, 1)

	tests := []struct {
		price   string
		wantErr bool
	}{
		{"1", false},
		{"5", false},
		{"10000", false},
		{"99.99", false},
		{"", true},
		{"abc", true},
		{"0", true},
		{"-5", true},
		{"0.5", true},
		{"10000.01", true},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			err := ValidatePrice(tt.price, min, max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrice(%q) = %v, wantErr %v", tt.price, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePriceUnbounded(t *testing.T) {
	if err := ValidatePrice("0.0001", nil, nil); err != nil {
		t.Errorf("unbounded positive price rejected: %v", err)
	}
	if err := ValidatePrice("-1", nil, nil); err == nil {
		t.Error("negative price accepted without bounds")
	}
}
