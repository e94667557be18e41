package instrdata

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var isinShape = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

func TestGenerateISIN(t *testing.T) {
	for i := 0; i < 100; i++ {
		isin := GenerateISIN("US")

		assert.Len(t, isin, 12)
		assert.True(t, isinShape.MatchString(isin), "ISIN %q does not match the expected shape", isin)
		assert.Equal(t, "US", isin[:2])
	}
}

func TestGeneratePriceFallsInExactlyOneBucket(t *testing.T) {
	for i := 0; i < 1000; i++ {
		price := GeneratePrice()

		matches := 0
		for _, bucket := range PriceBuckets {
			if price > bucket.Min && price <= bucket.Max {
				matches++
			}
		}

		if price == PriceBuckets[0].Min {
			// The global lower edge belongs to the first bucket
			matches++
		}

		assert.Equal(t, 1, matches, "price %.2f should fall in exactly one bucket", price)
	}
}

func TestGeneratePriceHasTwoDecimals(t *testing.T) {
	for i := 0; i < 100; i++ {
		price := GeneratePrice()
		cents := price * 100

		assert.InDelta(t, float64(int64(cents+0.5)), cents, 1e-6, "price %v should have 2 decimal precision", price)
	}
}

func TestGenerateLongNameLength(t *testing.T) {
	for i := 0; i < 500; i++ {
		longName := GenerateLongName()

		assert.GreaterOrEqual(t, len(longName), LongNameMin, "long name too short: %q", longName)
		assert.LessOrEqual(t, len(longName), LongNameMax, "long name too long: %q", longName)
	}
}

func TestGenerateName(t *testing.T) {
	name := GenerateName()
	assert.NotEmpty(t, name)
}

func TestGenerateInstrumentsUniqueISINs(t *testing.T) {
	const count = 500

	instruments := GenerateInstruments(count)
	require.Len(t, instruments, count)

	seen := make(map[string]struct{}, count)
	for _, instr := range instruments {
		_, dup := seen[instr.ISIN]
		assert.False(t, dup, "duplicate ISIN in batch: %s", instr.ISIN)
		seen[instr.ISIN] = struct{}{}

		assert.Len(t, instr.ISIN, 12)
		assert.NotEmpty(t, instr.Name)
		assert.Positive(t, instr.Price)
	}
}
