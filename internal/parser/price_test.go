package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrice(t *testing.T) {
	opts := DefaultOptions()

	testCases := []struct {
		name     string
		text     string
		price    *float64
		currency string
	}{
		{
			name:     "dollar amount",
			text:     "Anker charger $19.99 today only",
			price:    ptr(19.99),
			currency: CurrencyUSD,
		},
		{
			name:     "pound amount",
			text:     "Kettle for £25",
			price:    ptr(25.0),
			currency: CurrencyGBP,
		},
		{
			name:     "euro amount with thousands separator",
			text:     "Gaming laptop €1,299.50",
			price:    ptr(1299.50),
			currency: CurrencyEUR,
		},
		{
			name:     "canadian dollar not claimed by USD",
			text:     "Stanley cup C$ 79.99",
			price:    ptr(79.99),
			currency: CurrencyCAD,
		},
		{
			name:     "australian dollar",
			text:     "Deal at A$49",
			price:    ptr(49.0),
			currency: CurrencyAUD,
		},
		{
			name:     "rupee symbol",
			text:     "boAt earbuds ₹1,299 only",
			price:    ptr(1299.0),
			currency: CurrencyINR,
		},
		{
			name:     "rupee Rs notation",
			text:     "Kurta at Rs. 599",
			price:    ptr(599.0),
			currency: CurrencyINR,
		},
		{
			name:     "code notation",
			text:     "Headphones for USD 89",
			price:    ptr(89.0),
			currency: CurrencyUSD,
		},
		{
			name:     "no currency marker reports default",
			text:     "great deal on headphones",
			price:    nil,
			currency: CurrencyUSD,
		},
		{
			name:     "zero amount is noise",
			text:     "pay $0.00 upfront",
			price:    nil,
			currency: CurrencyUSD,
		},
		{
			name:     "absurd amount is noise",
			text:     "order id $99999999",
			price:    nil,
			currency: CurrencyUSD,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, currency := ExtractPrice(tc.text, opts)
			assert.Equal(t, tc.currency, currency)
			if tc.price == nil {
				assert.Nil(t, price)
			} else {
				require.NotNil(t, price)
				assert.InDelta(t, *tc.price, *price, 0.001)
			}
		})
	}
}

func TestExtractPricePair(t *testing.T) {
	opts := DefaultOptions()

	t.Run("deal then original", func(t *testing.T) {
		deal, original, currency := ExtractPricePair("Sony Headphones $199 (was $299)", opts)
		require.NotNil(t, deal)
		require.NotNil(t, original)
		assert.Equal(t, 199.0, *deal)
		assert.Equal(t, 299.0, *original)
		assert.Equal(t, CurrencyUSD, currency)
	})

	t.Run("textual order is not trusted", func(t *testing.T) {
		// The larger amount appears first; it still becomes the original.
		deal, original, _ := ExtractPricePair("$299 reduced from $199", opts)
		require.NotNil(t, deal)
		require.NotNil(t, original)
		assert.Equal(t, 199.0, *deal)
		assert.Equal(t, 299.0, *original)
		assert.GreaterOrEqual(t, *original, *deal)
	})

	t.Run("rupee MRP pair", func(t *testing.T) {
		deal, original, currency := ExtractPricePair("boAt Airdopes ₹1,299 MRP ₹4,999", opts)
		require.NotNil(t, deal)
		require.NotNil(t, original)
		assert.Equal(t, 1299.0, *deal)
		assert.Equal(t, 4999.0, *original)
		assert.Equal(t, CurrencyINR, currency)
	})

	t.Run("Rs pair", func(t *testing.T) {
		deal, original, currency := ExtractPricePair("Combo at Rs. 599 (Reg. Rs. 999)", opts)
		require.NotNil(t, deal)
		require.NotNil(t, original)
		assert.Equal(t, 599.0, *deal)
		assert.Equal(t, 999.0, *original)
		assert.Equal(t, CurrencyINR, currency)
	})

	t.Run("euro pair", func(t *testing.T) {
		deal, original, currency := ExtractPricePair("€49.99 originally €89.99", opts)
		require.NotNil(t, deal)
		require.NotNil(t, original)
		assert.Equal(t, 49.99, *deal)
		assert.Equal(t, 89.99, *original)
		assert.Equal(t, CurrencyEUR, currency)
	})

	t.Run("falls back to single price", func(t *testing.T) {
		deal, original, currency := ExtractPricePair("Was $299, now heavily reduced", opts)
		require.NotNil(t, deal)
		assert.Equal(t, 299.0, *deal)
		assert.Nil(t, original)
		assert.Equal(t, CurrencyUSD, currency)
	})

	t.Run("no prices at all", func(t *testing.T) {
		deal, original, currency := ExtractPricePair("freebie, grab fast", opts)
		assert.Nil(t, deal)
		assert.Nil(t, original)
		assert.Equal(t, CurrencyUSD, currency)
	})
}

func ptr(v float64) *float64 {
	return &v
}
