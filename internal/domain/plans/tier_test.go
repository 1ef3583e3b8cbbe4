package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTier(t *testing.T) {
	tests := map[string]string{
		"pro":      TierPro,
		" PRO ":    TierPro,
		"free":     TierFree,
		"":         TierFree,
		"premium":  TierFree,
		"pro-plus": TierFree,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTier(in), "input %q", in)
	}
}

func TestTierForPrice(t *testing.T) {
	assert.Equal(t, TierPro, TierForPrice("price_pro", "price_pro"))
	assert.Equal(t, TierFree, TierForPrice("price_other", "price_pro"))
	assert.Equal(t, TierFree, TierForPrice("", ""))
}
