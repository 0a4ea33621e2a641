// Package pricing turns catalog products into priced products and narrows
// them by price and popularity bounds.
package pricing

import (
	"math"

	"GoldStore/internal/catalog"
)

// PricedProduct is a catalog product with its computed price. It lives for a
// single response.
type PricedProduct struct {
	catalog.Product
	Price float64 `json:"price"`
}

// Bounds holds the optional inclusive filter limits; nil means absent.
type Bounds struct {
	MinPrice      *float64
	MaxPrice      *float64
	MinPopularity *float64
	MaxPopularity *float64
}

func (b Bounds) hasPrice() bool      { return b.MinPrice != nil || b.MaxPrice != nil }
func (b Bounds) hasPopularity() bool { return b.MinPopularity != nil || b.MaxPopularity != nil }

// Price is (popularityScore + 1) * weight * pricePerGram.
func Price(p catalog.Product, pricePerGram float64) float64 {
	return (p.PopularityScore + 1) * p.Weight * pricePerGram
}

// PriceAll prices every product, keeping catalog order.
func PriceAll(products []catalog.Product, pricePerGram float64) []PricedProduct {
	out := make([]PricedProduct, len(products))
	for i, p := range products {
		out[i] = PricedProduct{Product: p, Price: Price(p, pricePerGram)}
	}
	return out
}

// Filter keeps items inside every supplied bound. Absent price bounds default
// to [0, +Inf), absent popularity bounds to [0, 100].
func Filter(items []PricedProduct, b Bounds) []PricedProduct {
	minPrice, maxPrice := orDefault(b.MinPrice, 0), orDefault(b.MaxPrice, math.Inf(1))
	minPop := orDefault(b.MinPopularity, catalog.MinPopularity)
	maxPop := orDefault(b.MaxPopularity, catalog.MaxPopularity)

	out := make([]PricedProduct, 0, len(items))
	for _, it := range items {
		if b.hasPrice() && !within(it.Price, minPrice, maxPrice) {
			continue
		}
		if b.hasPopularity() && !within(it.PopularityScore, minPop, maxPop) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func PriceAndFilter(products []catalog.Product, pricePerGram float64, b Bounds) []PricedProduct {
	return Filter(PriceAll(products, pricePerGram), b)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func within(v, lo, hi float64) bool { return v >= lo && v <= hi }
