package checkout

import "github.com/shopspring/decimal"

var (
	baseCostRate   = decimal.NewFromFloat(0.40)
	commissionRate = decimal.NewFromFloat(0.30)
)

// CommissionRate returns the artist share applied to each unit price.
func CommissionRate() decimal.Decimal {
	return commissionRate
}

// Split is the per-unit decomposition of a sale price. BaseCostCents +
// ArtistCommissionCents + PlatformProfitCents always equals the price.
type Split struct {
	BaseCostCents         int
	ArtistCommissionCents int
	PlatformProfitCents   int
}

// SplitUnitPrice decomposes one unit price in cents. Base cost and artist
// commission round half-up to the cent; profit takes the exact remainder so
// the parts always sum back to the price.
func SplitUnitPrice(priceCents int, hasArtist bool) Split {
	price := decimal.NewFromInt(int64(priceCents))

	base := int(price.Mul(baseCostRate).Round(0).IntPart())

	commission := 0
	if hasArtist {
		commission = int(price.Mul(commissionRate).Round(0).IntPart())
	}

	return Split{
		BaseCostCents:         base,
		ArtistCommissionCents: commission,
		PlatformProfitCents:   priceCents - base - commission,
	}
}
