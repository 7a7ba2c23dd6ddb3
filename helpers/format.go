package helpers

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultExplorerURL = "https://explorer.solana.com"

// FormatNumber renders d with "," thousands separators and no trailing fractional zeros.
func FormatNumber(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// TokenAmount converts base units into whole tokens (amount / 10^decimals).
func TokenAmount(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}

func FormatTokenAmount(amount uint64, decimals uint8) string {
	return FormatNumber(TokenAmount(amount, decimals))
}

// TruncateAddress keeps the first and last chars characters of an address.
func TruncateAddress(address string, chars int) string {
	if chars <= 0 || len(address) <= 2*chars {
		return address
	}
	return address[:chars] + "..." + address[len(address)-chars:]
}

// ExplorerTxURL links a transaction signature on the block explorer.
func ExplorerTxURL(base, signature, cluster string) string {
	return explorerURL(base, "tx", signature, cluster)
}

// ExplorerAddressURL links an account on the block explorer.
func ExplorerAddressURL(base, address, cluster string) string {
	return explorerURL(base, "address", address, cluster)
}

func explorerURL(base, kind, id, cluster string) string {
	if base == "" {
		base = DefaultExplorerURL
	}
	u := fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), kind, url.PathEscape(id))
	if cluster != "" && cluster != "mainnet-beta" {
		u += "?cluster=" + url.QueryEscape(cluster)
	}
	return u
}
