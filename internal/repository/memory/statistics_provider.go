package memory

import (
	"context"
	"time"

	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/contract"
	"ai-shopsearch-be/pkg/pricing"

	"github.com/patrickmn/go-cache"
)

const statisticsCacheKey = "price_statistics"

// CachedStatisticsProvider memoizes the catalog price aggregate so the
// intent extractor does not hit Postgres on every request.
type CachedStatisticsProvider struct {
	products contract.ProductRepository
	cache    *cache.Cache
	log      logger.ILogger
}

var _ pricing.StatisticsProvider = (*CachedStatisticsProvider)(nil)

func NewStatisticsProvider(products contract.ProductRepository, log logger.ILogger) *CachedStatisticsProvider {
	// Price distribution moves slowly, a 10 minute snapshot is fresh enough
	// for intent extraction. Purge sweep every 30 minutes.
	c := cache.New(10*time.Minute, 30*time.Minute)
	return &CachedStatisticsProvider{
		products: products,
		cache:    c,
		log:      log,
	}
}

func (p *CachedStatisticsProvider) Statistics(ctx context.Context) (pricing.Statistics, error) {
	if x, found := p.cache.Get(statisticsCacheKey); found {
		return x.(pricing.Statistics), nil
	}

	raw, err := p.products.PriceStatistics(ctx)
	if err != nil {
		// Degrade to the fixed fallback and retry on the next call, a
		// transient DB error should not poison the cache for 10 minutes.
		p.log.Warn("pricing", "price statistics query failed, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return pricing.DefaultStatistics(), nil
	}

	stats := pricing.DefaultStatistics()
	if raw.Count > 0 {
		stats = pricing.Statistics{
			Min:     raw.Min,
			Max:     raw.Max,
			Median:  raw.Median,
			Budget:  raw.P25 * 1.5,
			Premium: raw.P75 * 1.2,
		}
	}

	p.cache.Set(statisticsCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}
