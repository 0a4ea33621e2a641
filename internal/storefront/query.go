package storefront

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"GoldStore/internal/pricing"
)

type productsQuery struct {
	Bounds      pricing.Bounds
	UseLiveMode bool
}

// parseProductsQuery never rejects a request: unparsable bounds are treated
// as absent and an unparsable live flag as false.
func parseProductsQuery(v url.Values) productsQuery {
	return productsQuery{
		Bounds: pricing.Bounds{
			MinPrice:      optionalFloat(v.Get("minPrice")),
			MaxPrice:      optionalFloat(v.Get("maxPrice")),
			MinPopularity: optionalFloat(v.Get("minPopularity")),
			MaxPopularity: optionalFloat(v.Get("maxPopularity")),
		},
		UseLiveMode: flag(v, "realTimePrice") || flag(v, "useLiveMode"),
	}
}

func optionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func flag(v url.Values, key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v.Get(key)))
	return err == nil && b
}
