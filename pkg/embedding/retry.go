package embedding

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"ai-shopsearch-be/internal/pkg/logger"
)

const (
	defaultMaxTries        = 2
	defaultInitialInterval = 200 * time.Millisecond
)

// RetryProvider decorates an EmbeddingProvider with a bounded exponential
// backoff. One retry is enough for the transient failures the providers
// show in practice, anything else surfaces to the caller.
type RetryProvider struct {
	inner           EmbeddingProvider
	maxTries        uint
	initialInterval time.Duration
	log             logger.ILogger
}

func NewRetryProvider(inner EmbeddingProvider, log logger.ILogger) EmbeddingProvider {
	return &RetryProvider{
		inner:           inner,
		maxTries:        defaultMaxTries,
		initialInterval: defaultInitialInterval,
		log:             log,
	}
}

func (p *RetryProvider) Generate(ctx context.Context, text string) (EmbeddingResult, error) {
	attempt := 0
	operation := func() (EmbeddingResult, error) {
		attempt++
		result, err := p.inner.Generate(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return EmbeddingResult{}, backoff.Permanent(err)
			}
			p.log.Warn("embedding", "embedding attempt failed", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
			})
			return EmbeddingResult{}, err
		}
		return result, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialInterval

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(p.maxTries),
	)
}

func (p *RetryProvider) Dimensions() int {
	return p.inner.Dimensions()
}
