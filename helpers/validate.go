package helpers

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxTokenNameLength = 32
	DefaultDecimals    = 9
)

// SupportedDecimals lists the decimal places offered when creating a token.
var SupportedDecimals = []uint8{0, 2, 6, 8, 9}

var (
	ErrNameRequired        = errors.New("Token name is required")
	ErrNameTooLong         = fmt.Errorf("Token name must be %d characters or less", MaxTokenNameLength)
	ErrNameCharset         = errors.New("Token name can only contain letters, numbers, spaces, underscores, and hyphens")
	ErrSupplyInvalid       = errors.New("Supply must be a positive number")
	ErrSupplyTooLarge      = errors.New("Supply is too large")
	ErrDecimalsUnsupported = errors.New("Decimals must be one of 0, 2, 6, 8 or 9")
)

var tokenNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

var maxU64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ValidateTokenName checks the name before any network call.
// Length is counted in bytes because the name is used verbatim as a PDA seed.
func ValidateTokenName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if len(name) > MaxTokenNameLength {
		return ErrNameTooLong
	}
	if !tokenNamePattern.MatchString(name) {
		return ErrNameCharset
	}
	return nil
}

// ValidateSupply checks a whole-token supply string as typed by the user.
func ValidateSupply(supply string) error {
	_, err := parseSupply(supply)
	return err
}

func ValidateDecimals(decimals uint8) error {
	for _, d := range SupportedDecimals {
		if d == decimals {
			return nil
		}
	}
	return ErrDecimalsUnsupported
}

// maxSupplyDigits is the number of integer digits in math.MaxUint64.
const maxSupplyDigits = 20

// parseSupply accepts plain decimal notation only; "1e50000000" would be
// expanded to a fifty million digit integer by the first comparison.
func parseSupply(supply string) (decimal.Decimal, error) {
	supply = strings.TrimSpace(supply)
	if strings.ContainsAny(supply, "eE") {
		return decimal.Zero, ErrSupplyInvalid
	}
	d, err := decimal.NewFromString(supply)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrSupplyInvalid
	}
	if d.NumDigits()+int(d.Exponent()) > maxSupplyDigits || d.GreaterThan(maxU64) {
		return decimal.Zero, ErrSupplyTooLarge
	}
	return d, nil
}

// ScaleSupply converts a whole-token amount into base units (supply * 10^decimals).
// Fractions of a base unit are truncated; the result must fit in a u64.
func ScaleSupply(supply string, decimals uint8) (uint64, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return 0, err
	}
	d, err := parseSupply(supply)
	if err != nil {
		return 0, err
	}
	scaled := d.Shift(int32(decimals)).Truncate(0)
	if !scaled.IsPositive() {
		return 0, ErrSupplyInvalid
	}
	if scaled.GreaterThan(maxU64) {
		return 0, ErrSupplyTooLarge
	}
	return scaled.BigInt().Uint64(), nil
}
