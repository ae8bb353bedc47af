package payments

import "github.com/shopspring/decimal"

// AmountCents converts a dollar price into integer cents with half-up rounding.
func AmountCents(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// PlatformFeeCents computes the marketplace cut of an amount, in cents,
// from a fee expressed in basis points. Rounds half-up.
func PlatformFeeCents(amountCents int64, feeBPS int64) int64 {
	if amountCents <= 0 || feeBPS <= 0 {
		return 0
	}
	amount := decimal.NewFromInt(amountCents)
	bps := decimal.NewFromInt(feeBPS)
	return amount.Mul(bps).Div(decimal.NewFromInt(10000)).Round(0).IntPart()
}

// FarmerNetCents is the amount the connected account receives after the fee.
func FarmerNetCents(amountCents, feeCents int64) int64 {
	net := amountCents - feeCents
	if net < 0 {
		return 0
	}
	return net
}
