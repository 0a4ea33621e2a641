package goldprice

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"GoldStore/pkg/kit"
)

const (
	providerFixed = "fixed"
	providerCache = "cache"
)

// Oracle picks the price-per-gram for a request. It never fails: every
// broken path ends at the fixed fallback price.
type Oracle struct {
	Strategies      []Strategy
	Cache           Cache
	FallbackPerGram float64
	Now             Clock
	Log             *zap.Logger
	Metrics         *Metrics
}

func NewOracle(fallbackPerGram float64, cache Cache, strategies ...Strategy) *Oracle {
	if !usable(fallbackPerGram) {
		fallbackPerGram = DefaultFallbackPerGram
	}
	return &Oracle{
		Strategies:      strategies,
		Cache:           cache,
		FallbackPerGram: fallbackPerGram,
		Now:             time.Now,
	}
}

func (o *Oracle) Resolve(ctx context.Context, useLiveMode bool) Resolution {
	if !useLiveMode {
		o.Metrics.resolved(SourceFallback, cacheBypass)
		return Resolution{Quote: o.fallback(), Provider: providerFixed}
	}

	log := kit.OrNop(o.Log)

	if o.Cache != nil {
		if q, ok := o.Cache.Get(ctx); ok {
			log.Debug("gold price cache hit", zap.Float64("per_gram", q.PricePerGram))
			o.Metrics.resolved(q.Source, cacheHit)
			return Resolution{Quote: q, Cached: true, Provider: providerCache}
		}
	}

	for _, s := range o.Strategies {
		perGram, err := fetch(ctx, s)
		if err != nil {
			log.Warn("gold price strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
			o.Metrics.failed(s.Name())
			continue
		}

		q := Quote{PricePerGram: perGram, ObtainedAt: o.now(), Source: SourceLive}
		if o.Cache != nil {
			o.Cache.Set(ctx, q)
		}
		log.Info("gold price refreshed",
			zap.String("strategy", s.Name()),
			zap.Float64("per_gram", perGram),
		)
		o.Metrics.resolved(SourceLive, cacheMiss)
		o.Metrics.live(perGram)
		return Resolution{Quote: q, Provider: s.Name()}
	}

	log.Warn("all gold price strategies failed, using fallback",
		zap.Float64("per_gram", o.FallbackPerGram),
	)
	o.Metrics.resolved(SourceFallback, cacheMiss)
	return Resolution{Quote: o.fallback(), Degraded: true, Provider: providerFixed}
}

func (o *Oracle) fallback() Quote {
	return Quote{PricePerGram: o.FallbackPerGram, ObtainedAt: o.now(), Source: SourceFallback}
}

func (o *Oracle) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// fetch shields the chain from a misbehaving strategy.
func fetch(ctx context.Context, s Strategy) (perGram float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("strategy panic: %v", rec)
		}
	}()

	perGram, err = s.PricePerGram(ctx)
	if err != nil {
		return 0, err
	}
	if !usable(perGram) {
		return 0, fmt.Errorf("%w: per gram=%v", ErrBadRate, perGram)
	}
	return perGram, nil
}
