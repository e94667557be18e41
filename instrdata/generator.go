package instrdata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// RandomSource provides a common random source for instrument generation
var RandomSource = rand.New(rand.NewSource(time.Now().UnixNano()))

const isinAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Instrument is one synthetic financial instrument record
type Instrument struct {
	ISIN     string  `json:"isin"`
	Name     string  `json:"name"`
	LongName string  `json:"long_name"`
	Price    float64 `json:"price"`
}

// PriceBucket is one market-cap tier of the price distribution
type PriceBucket struct {
	Name string
	Min  float64
	Max  float64
}

// PriceBuckets defines the five disjoint price tiers. Every generated price
// falls in exactly one of them.
var PriceBuckets = []PriceBucket{
	{"penny_stocks", 1.0, 10.0},
	{"small_cap", 10.0, 50.0},
	{"mid_cap", 50.0, 200.0},
	{"large_cap", 200.0, 1000.0},
	{"high_value", 1000.0, 5000.0},
}

// GenerateISIN generates an identifier in ISIN shape: a 2-letter region
// code, 9 alphanumeric characters and a single check digit.
func GenerateISIN(countryCode string) string {
	var sb strings.Builder
	sb.WriteString(countryCode)
	for i := 0; i < 9; i++ {
		sb.WriteByte(isinAlphabet[RandomSource.Intn(len(isinAlphabet))])
	}
	sb.WriteString(fmt.Sprintf("%d", RandomSource.Intn(10)))
	return sb.String()
}

// GenerateName composes a short instrument display name from one of four
// fixed templates
func GenerateName() string {
	prefix := NamePrefixes[RandomSource.Intn(len(NamePrefixes))]
	company := CompanyNames[RandomSource.Intn(len(CompanyNames))]
	suffix := NameSuffixes[RandomSource.Intn(len(NameSuffixes))]

	templates := []string{
		fmt.Sprintf("%s %s %s", prefix, company, suffix),
		fmt.Sprintf("%s %s", company, suffix),
		fmt.Sprintf("%s %s", prefix, company),
		fmt.Sprintf("%s %s %s", company, prefix, suffix),
	}
	return templates[RandomSource.Intn(len(templates))]
}

// GenerateLongName composes a long instrument display name and normalizes
// it into the [LongNameMin, LongNameMax] character window: filler phrases
// are appended while the name is too short, and names over the maximum are
// cut to 197 characters plus an ellipsis.
func GenerateLongName() string {
	area := func() string { return BusinessAreas[RandomSource.Intn(len(BusinessAreas))] }
	region := func() string { return GeographicRegions[RandomSource.Intn(len(GeographicRegions))] }
	fund := func() string { return FundTypes[RandomSource.Intn(len(FundTypes))] }
	strategy := func() string { return InvestmentStrategies[RandomSource.Intn(len(InvestmentStrategies))] }

	patterns := []string{
		fmt.Sprintf("%s %s %s - %s with Enhanced Risk Management and Diversified Portfolio Allocation",
			area(), region(), fund(), strategy()),
		fmt.Sprintf("International %s and %s %s focused on %s Markets with Sustainable Investment Approach",
			area(), area(), fund(), region()),
		fmt.Sprintf("%s %s %s implementing %s and Advanced Portfolio Optimization Techniques",
			region(), area(), fund(), strategy()),
		fmt.Sprintf("Global %s Investment Platform featuring %s with %s and Multi-Asset Class Diversification",
			area(), fund(), strategy()),
		fmt.Sprintf("%s for %s %s Sector with Focus on %s and Long-Term Value Creation",
			fund(), region(), area(), strategy()),
		fmt.Sprintf("Diversified %s and %s %s targeting %s with %s",
			area(), area(), fund(), region(), strategy()),
		fmt.Sprintf("Strategic %s Investment %s for %s Markets emphasizing %s and Risk-Adjusted Returns",
			area(), fund(), region(), strategy()),
	}

	longName := patterns[RandomSource.Intn(len(patterns))]

	for len(longName) < LongNameMin {
		longName += " " + FillerDetails[RandomSource.Intn(len(FillerDetails))]
	}
	if len(longName) > LongNameMax {
		longName = longName[:197] + "..."
	}
	return longName
}

// GeneratePrice samples a price with the bucket-then-uniform distribution:
// a bucket is chosen uniformly, then the value uniformly inside it, rounded
// to 2 decimals.
func GeneratePrice() float64 {
	bucket := PriceBuckets[RandomSource.Intn(len(PriceBuckets))]
	price := bucket.Min + RandomSource.Float64()*(bucket.Max-bucket.Min)
	return RoundPrice(price)
}

// RoundPrice rounds a price to 2 decimal places
func RoundPrice(price float64) float64 {
	return float64(int64(price*100+0.5)) / 100
}

// GenerateInstruments produces count instruments with ISINs unique within
// the batch. Collisions are resolved by resampling; uniqueness is not
// tracked across calls.
func GenerateInstruments(count int) []Instrument {
	instruments := make([]Instrument, 0, count)
	usedISINs := make(map[string]struct{}, count)

	for i := 0; i < count; i++ {
		var isin string
		for {
			country := CountryCodes[RandomSource.Intn(len(CountryCodes))]
			isin = GenerateISIN(country)
			if _, exists := usedISINs[isin]; !exists {
				usedISINs[isin] = struct{}{}
				break
			}
		}

		instruments = append(instruments, Instrument{
			ISIN:     isin,
			Name:     GenerateName(),
			LongName: GenerateLongName(),
			Price:    GeneratePrice(),
		})
	}

	return instruments
}
