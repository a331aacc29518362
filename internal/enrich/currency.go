package enrich

import (
	"fmt"
	"regexp"
	"strconv"
)

var reDollar = regexp.MustCompile(`\$\s?(\d+(?:\.\d{1,2})?)`)

// StandardizeCurrency rewrites every recognized monetary mention to the
// fixed $XX.XX form and returns the extracted numeric values in order of
// appearance. Re-applying it to already-standardized text changes nothing.
func StandardizeCurrency(text string) (string, []float64) {
	var prices []float64
	out := reDollar.ReplaceAllStringFunc(text, func(m string) string {
		raw := reDollar.FindStringSubmatch(m)[1]
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return m
		}
		prices = append(prices, v)
		return fmt.Sprintf("$%.2f", v)
	})
	return out, prices
}

// HasDollarAmount reports whether text contains at least one dollar amount.
// The chunker uses this to classify documents as menu-bearing.
func HasDollarAmount(text string) bool {
	return reDollar.MatchString(text)
}

// PriceTier buckets an average price into the fixed tier vocabulary.
func PriceTier(avg float64) string {
	switch {
	case avg < 15:
		return "budget"
	case avg <= 30:
		return "moderate"
	case avg <= 50:
		return "upscale"
	default:
		return "luxury"
	}
}

func priceStats(prices []float64) (min, max, avg float64) {
	min, max = prices[0], prices[0]
	var sum float64
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}
	return min, max, sum / float64(len(prices))
}
