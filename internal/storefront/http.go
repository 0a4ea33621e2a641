package storefront

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"GoldStore/internal/catalog"
	"GoldStore/internal/goldprice"
	"GoldStore/internal/pricing"
	"GoldStore/pkg/kit"
)

// PriceResolver is satisfied by *goldprice.Oracle.
type PriceResolver interface {
	Resolve(ctx context.Context, useLiveMode bool) goldprice.Resolution
}

// ProbeRunner is satisfied by *goldprice.Prober.
type ProbeRunner interface {
	Run(ctx context.Context) goldprice.ProbeReport
}

type Server struct {
	Store  catalog.Store
	Oracle PriceResolver
	Prober ProbeRunner
	Log    *zap.Logger

	// KeyStatus is "configured" or "missing"; see goldprice.KeyStatus.
	KeyStatus string
	Now       func() time.Time

	probeLimiter *kit.IPRateLimiter
}

const (
	cacheStatusCached = "cached"
	cacheStatusFresh  = "fresh"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type productsResponse struct {
	Products    []pricing.PricedProduct `json:"products"`
	GoldPrice   float64                 `json:"goldPrice"`
	IsLiveMode  bool                    `json:"isLiveMode"`
	Timestamp   string                  `json:"timestamp"`
	CacheStatus string                  `json:"cacheStatus"`
	KeyStatus   string                  `json:"keyStatus"`
	PriceSource goldprice.Source        `json:"priceSource"`
	Degraded    bool                    `json:"degraded"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			s.log().Warn("readyz failed", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/products", s.listProducts)

		if s.Prober != nil {
			var mws []func(http.Handler) http.Handler
			if s.probeLimiter != nil {
				mws = append(mws, s.probeLimiter.Middleware)
			}
			ar.With(mws...).Get("/test-metal-price", s.testMetalPrice)
		}
	})

	return r
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := parseProductsQuery(r.URL.Query())

	products, err := s.Store.List(r.Context())
	if err != nil {
		s.log().Error("list products failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "Failed to fetch products", err.Error())
		return
	}

	res := s.Oracle.Resolve(r.Context(), q.UseLiveMode)

	cacheStatus := cacheStatusFresh
	if res.Cached {
		cacheStatus = cacheStatusCached
	}

	s.log().Debug("priced products",
		zap.Bool("live", q.UseLiveMode),
		zap.String("provider", res.Provider),
		zap.Float64("per_gram", res.PricePerGram),
	)

	kit.WriteJSON(w, http.StatusOK, productsResponse{
		Products:    pricing.PriceAndFilter(products, res.PricePerGram, q.Bounds),
		GoldPrice:   round2(res.PricePerGram),
		IsLiveMode:  q.UseLiveMode,
		Timestamp:   s.now().UTC().Format(timestampLayout),
		CacheStatus: cacheStatus,
		KeyStatus:   s.keyStatus(),
		PriceSource: res.Source,
		Degraded:    res.Degraded,
	})
}

func (s *Server) testMetalPrice(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Prober.Run(r.Context()))
}

func (s *Server) log() *zap.Logger { return kit.OrNop(s.Log) }

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Server) keyStatus() string {
	if s.KeyStatus == "" {
		return goldprice.KeyStatus("")
	}
	return s.KeyStatus
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
