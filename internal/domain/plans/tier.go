package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierFree = "free"
	TierPro  = "pro"
)

// NormalizeTier maps a stored tier value onto a known tier.
// Anything unrecognised is treated as free so bad data never grants pro.
func NormalizeTier(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}

// TierForPrice reports the tier a Stripe price id unlocks.
func TierForPrice(priceID, proPriceID string) string {
	if proPriceID != "" && priceID == proPriceID {
		return TierPro
	}
	return TierFree
}
