package goldprice

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Strategy is one price source in the oracle chain.
type Strategy interface {
	Name() string
	PricePerGram(ctx context.Context) (float64, error)
}

// RatesFetcher is the part of MetalsClient the strategies need.
type RatesFetcher interface {
	Latest(ctx context.Context, base, symbols string) (LatestResponse, error)
}

var (
	ErrMissingRate = errors.New("rate missing from response")
	ErrBadRate     = errors.New("rate not usable")
)

// USDBaseStrategy asks for XAU per USD and inverts it to USD per ounce.
type USDBaseStrategy struct {
	Client RatesFetcher
}

func (USDBaseStrategy) Name() string { return "metals-api:usd-xau" }

func (s USDBaseStrategy) PricePerGram(ctx context.Context) (float64, error) {
	resp, err := s.Client.Latest(ctx, "USD", "XAU")
	if err != nil {
		return 0, err
	}
	rate, err := positiveRate(resp, "XAU")
	if err != nil {
		return 0, err
	}
	return perGram(1 / rate)
}

// XAUBaseStrategy asks for USD per XAU and takes the USD rate as the price
// per troy ounce as-is.
type XAUBaseStrategy struct {
	Client RatesFetcher
}

func (XAUBaseStrategy) Name() string { return "metals-api:xau-usd" }

func (s XAUBaseStrategy) PricePerGram(ctx context.Context) (float64, error) {
	resp, err := s.Client.Latest(ctx, "XAU", "USD")
	if err != nil {
		return 0, err
	}
	perOunce, err := positiveRate(resp, "USD")
	if err != nil {
		return 0, err
	}
	return perGram(perOunce)
}

// MetalsStrategies is the default chain: inverted USD base first, XAU base
// second.
func MetalsStrategies(c RatesFetcher) []Strategy {
	return []Strategy{USDBaseStrategy{Client: c}, XAUBaseStrategy{Client: c}}
}

func positiveRate(resp LatestResponse, symbol string) (float64, error) {
	r, ok := resp.Rates[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingRate, symbol)
	}
	if !usable(r) {
		return 0, fmt.Errorf("%w: %s=%v", ErrBadRate, symbol, r)
	}
	return r, nil
}

func perGram(perOunce float64) (float64, error) {
	g := perOunce / TroyOunceGrams
	if !usable(g) {
		return 0, fmt.Errorf("%w: per gram=%v", ErrBadRate, g)
	}
	return g, nil
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
