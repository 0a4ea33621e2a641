package main

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"GoldStore/internal/catalog"
	"GoldStore/internal/config"
	"GoldStore/internal/goldprice"
	"GoldStore/internal/storefront"
	"GoldStore/pkg/kit"
)

const catalogLoadTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	service := "storefront"

	cfg, err := config.Load(getenv("CONFIG_PATH", "storefront.yaml"))
	if err != nil {
		kit.NewLogger(service, "").Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	store, err := loadCatalog(cfg.Catalog, log)
	if err != nil {
		log.Fatal("load catalog failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gp := cfg.GoldPrice
	client := goldprice.NewMetalsClient(goldprice.MetalsConfig{
		BaseURL:       gp.BaseURL,
		APIKey:        gp.APIKey,
		Timeout:       gp.Timeout(),
		RatePerSecond: gp.RatePerSecond,
		Burst:         gp.Burst,
	})
	if !client.KeyConfigured() {
		log.Warn("METALS_API_KEY not set; live pricing will fall back to the fixed price")
	}

	oracle := goldprice.NewOracle(gp.FallbackPerGram, newQuoteCache(gp.RedisAddr, log), goldprice.MetalsStrategies(client)...)
	oracle.Log = log
	oracle.Metrics = goldprice.NewMetrics(reg)

	prober := goldprice.NewProber(gp.APIKey, cfg.Probe.Timeout(), goldprice.DefaultProbeTargets(gp.BaseURL))
	prober.Log = log

	s := &storefront.Server{
		Store:     store,
		Oracle:    oracle,
		Prober:    prober,
		Log:       log,
		KeyStatus: goldprice.KeyStatus(gp.APIKey),
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:                 log,
		Service:             service,
		Registry:            reg,
		MetricsEnabled:      cfg.Metrics.Enabled,
		MetricsToken:        cfg.Metrics.Token,
		ProbeLimitPerMinute: cfg.Probe.LimitPerMinute,
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// loadCatalog reads the catalog exactly once: from Postgres when a database
// is configured, else from a JSON file, else the bundled data.
func loadCatalog(cfg config.Catalog, log *zap.Logger) (*catalog.MemStore, error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := catalog.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
		defer cancel()

		log.Info("loading catalog from postgres")
		return catalog.Snapshot(ctx, catalog.NewPostgresStore(db))
	case cfg.Path != "":
		log.Info("loading catalog from file", zap.String("path", cfg.Path))
		return catalog.LoadFile(cfg.Path)
	default:
		return catalog.NewStore()
	}
}

func newQuoteCache(redisAddr string, log *zap.Logger) goldprice.Cache {
	if redisAddr == "" {
		return goldprice.NewMemCache(goldprice.CacheTTL, nil)
	}
	log.Info("sharing gold quote through redis", zap.String("addr", redisAddr))
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	return goldprice.NewRedisCache(rdb, goldprice.CacheTTL, nil, log)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
