// Package goldprice resolves the gold price-per-gram used for pricing, either
// the fixed fallback constant or a live quote from the metals API, behind a
// one-slot time-bounded cache.
package goldprice

import "time"

const (
	// TroyOunceGrams converts per-ounce spot quotes to per-gram.
	TroyOunceGrams = 31.1035

	// CacheTTL is how long a live quote stays valid after it was obtained.
	CacheTTL = time.Hour

	DefaultFallbackPerGram = 65.23
)

type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Clock is injected wherever quote age matters.
type Clock func() time.Time

type Quote struct {
	PricePerGram float64
	ObtainedAt   time.Time
	Source       Source
}

func (q Quote) ObtainedAtMillis() int64 { return q.ObtainedAt.UnixMilli() }

// Expired reports whether q is at least ttl old at now.
func (q Quote) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(q.ObtainedAt) >= ttl
}

// Resolution is the outcome of one Resolve call. Degraded is set when live
// pricing was asked for but every provider failed.
type Resolution struct {
	Quote
	Cached   bool
	Degraded bool
	Provider string
}
