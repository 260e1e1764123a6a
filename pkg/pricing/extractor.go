package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/pkg/llm"
)

const (
	DefaultConfidenceThreshold = 0.5
	DefaultLLMTimeout          = 3 * time.Second
	DefaultOverallLLMTimeout   = 5 * time.Second

	llmSystemPrompt = "Price analysis expert. Return valid JSON only."
	llmTemperature  = 0.1
	llmMaxTokens    = 100
	llmQueryMaxLen  = 100
)

// Config tunes the extraction chain. Zero values fall back to defaults.
type Config struct {
	// ConfidenceThreshold is the early-exit bar: once a strategy reaches it,
	// later (more expensive) strategies are skipped.
	ConfidenceThreshold float64
	// LLMTimeout bounds a single inference call, OverallLLMTimeout the whole
	// LLM leg including queueing.
	LLMTimeout        time.Duration
	OverallLLMTimeout time.Duration
	// Bands supplies the current category band table. Called per extraction
	// so a reloaded tuning snapshot takes effect without restart.
	Bands func() CategoryBands
}

func (c Config) withDefaults() Config {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = DefaultLLMTimeout
	}
	if c.OverallLLMTimeout <= 0 {
		c.OverallLLMTimeout = DefaultOverallLLMTimeout
	}
	if c.Bands == nil {
		c.Bands = DefaultBands
	}
	return c
}

// Extractor turns a raw query into a price Intent through layered strategies:
// deterministic patterns, budget/premium keywords, LLM inference, store
// statistics. It never fails, the worst case is the empty intent.
type Extractor struct {
	llmProvider llm.LLMProvider
	stats       StatisticsProvider
	log         logger.ILogger
	cfg         Config
}

// NewExtractor wires the extraction chain. llmProvider and stats may be nil,
// the corresponding strategies are then skipped.
func NewExtractor(llmProvider llm.LLMProvider, stats StatisticsProvider, log logger.ILogger, cfg Config) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		stats:       stats,
		log:         log,
		cfg:         cfg.withDefaults(),
	}
}

// Extract runs the strategy chain on the raw query.
func (e *Extractor) Extract(ctx context.Context, query string) Intent {
	query = strings.TrimSpace(query)
	if query == "" {
		return Intent{}
	}

	// 1. Deterministic patterns and keywords, cheap and high confidence.
	if intent := e.ExtractDeterministic(query); !intent.Empty() {
		e.log.Debug("pricing", "Price intent from deterministic tier", map[string]interface{}{
			"source": intent.Source, "confidence": intent.Confidence,
		})
		return intent
	}

	// No price cue at all: stop here, the empty intent is the right answer
	// and an inference call would be wasted.
	if !hasPriceCue(query) {
		return Intent{}
	}

	// 2. LLM inference for price-flavored queries the patterns missed.
	if e.llmProvider != nil {
		if intent, ok := e.extractLLM(ctx, query); ok {
			return normalizeBounds(intent)
		}
	}

	// 3. Store statistics as the last resort.
	return normalizeBounds(e.statisticalFallback(ctx))
}

// ExtractDeterministic runs only the pattern and keyword tiers. Autocomplete
// calls it per keystroke, so the inference and statistics tiers stay out of
// that path.
func (e *Extractor) ExtractDeterministic(query string) Intent {
	query = strings.TrimSpace(query)
	if query == "" {
		return Intent{}
	}

	if intent, ok := e.extractPatterns(query); ok {
		intent = normalizeBounds(intent)
		if intent.Confidence >= e.cfg.ConfidenceThreshold {
			return intent
		}
	}
	if intent, ok := e.extractKeywords(query); ok {
		intent = normalizeBounds(intent)
		if intent.Confidence >= e.cfg.ConfidenceThreshold {
			return intent
		}
	}
	return Intent{}
}

// extractPatterns tries the deterministic patterns in confidence order.
// A below and an above match in the same query merge into one range.
func (e *Extractor) extractPatterns(query string) (Intent, bool) {
	if intent, ok := extractRange(query); ok {
		return intent, true
	}

	below, okBelow := extractBelow(query)
	above, okAbove := extractAbove(query)
	switch {
	case okBelow && okAbove:
		merged := Intent{
			MinPrice:   above.MinPrice,
			MaxPrice:   below.MaxPrice,
			Confidence: ConfidenceBelowPattern,
			Source:     SourceRegexRange,
			spans:      append(above.spans, below.spans...),
		}
		return merged, true
	case okBelow:
		return below, true
	case okAbove:
		return above, true
	}

	if intent, ok := extractApprox(query); ok {
		return intent, true
	}
	return extractExact(query)
}

// extractKeywords resolves budget/premium keywords through the category band
// table. When both keyword families match, the earlier one in the query wins
// and the conflict is logged.
func (e *Extractor) extractKeywords(query string) (Intent, bool) {
	band := e.cfg.Bands().BandFor(DetectCategory(query))

	budgetIdx := budgetKeywordPattern.FindStringIndex(query)
	premiumIdx := premiumKeywordPattern.FindStringIndex(query)

	if budgetIdx != nil && premiumIdx != nil {
		e.log.Debug("pricing", "Conflicting price keywords, keeping the first", map[string]interface{}{
			"query": query,
		})
		if premiumIdx[0] < budgetIdx[0] {
			budgetIdx = nil
		} else {
			premiumIdx = nil
		}
	}

	if budgetIdx != nil {
		return Intent{
			MaxPrice:   ptr(band.BudgetMax),
			Confidence: ConfidenceKeyword,
			Source:     SourceBudgetKeyword,
			spans:      []span{{Start: budgetIdx[0], End: budgetIdx[1]}},
		}, true
	}
	if premiumIdx != nil {
		return Intent{
			MinPrice:   ptr(band.PremiumMin),
			Confidence: ConfidenceKeyword,
			Source:     SourcePremiumKeyword,
			spans:      []span{{Start: premiumIdx[0], End: premiumIdx[1]}},
		}, true
	}
	return Intent{}, false
}

type llmPriceResult struct {
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Reason   string   `json:"reason"`
}

// extractLLM asks the model for a price range, grounded on store statistics.
// Any failure (timeout, empty, malformed) contributes nothing.
func (e *Extractor) extractLLM(ctx context.Context, query string) (Intent, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.OverallLLMTimeout)
	defer cancel()
	callCtx, callCancel := context.WithTimeout(ctx, e.cfg.LLMTimeout)
	defer callCancel()

	stats := e.currentStatistics(ctx)

	truncated := query
	if len(truncated) > llmQueryMaxLen {
		truncated = truncated[:llmQueryMaxLen]
	}
	prompt := fmt.Sprintf(`Analyze: '%s' (truncated)
Store context: min=€%.0f, max=€%.0f, budget=€%.0f, premium=€%.0f
Return JSON: {"min_price": <number>, "max_price": <number>, "reason": "<short>"}`,
		truncated, stats.Min, stats.Max, stats.Budget, stats.Premium)

	content, err := e.llmProvider.Chat(callCtx, []llm.Message{
		{Role: "system", Content: llmSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithTemperature(llmTemperature), llm.WithMaxTokens(llmMaxTokens))
	if err != nil {
		e.log.Warn("pricing", "LLM price inference failed", map[string]interface{}{
			"error": err.Error(), "query": truncated,
		})
		return Intent{}, false
	}

	content = stripJSONFences(content)
	if content == "" {
		e.log.Warn("pricing", "LLM returned empty response", map[string]interface{}{"query": truncated})
		return Intent{}, false
	}

	var result llmPriceResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		e.log.Warn("pricing", "LLM returned invalid JSON", map[string]interface{}{
			"error": err.Error(), "query": truncated,
		})
		return Intent{}, false
	}
	if result.MinPrice == nil && result.MaxPrice == nil {
		return Intent{}, false
	}

	return Intent{
		MinPrice:   result.MinPrice,
		MaxPrice:   result.MaxPrice,
		Confidence: ConfidenceLLM,
		Source:     SourceLLMInference,
	}, true
}

func (e *Extractor) statisticalFallback(ctx context.Context) Intent {
	stats := e.currentStatistics(ctx)
	e.log.Debug("pricing", "Using store statistics fallback", map[string]interface{}{
		"budget": stats.Budget, "premium": stats.Premium,
	})
	return Intent{
		MinPrice:   ptr(stats.Budget),
		MaxPrice:   ptr(stats.Premium),
		Confidence: ConfidenceStoreStatistic,
		Source:     SourceStatisticalFallback,
	}
}

func (e *Extractor) currentStatistics(ctx context.Context) Statistics {
	if e.stats == nil {
		return DefaultStatistics()
	}
	stats, err := e.stats.Statistics(ctx)
	if err != nil {
		e.log.Warn("pricing", "Failed to load price statistics", map[string]interface{}{
			"error": err.Error(),
		})
		return DefaultStatistics()
	}
	return stats
}

// normalizeBounds enforces MinPrice <= MaxPrice by swapping when needed.
func normalizeBounds(i Intent) Intent {
	if i.MinPrice != nil && i.MaxPrice != nil && *i.MinPrice > *i.MaxPrice {
		i.MinPrice, i.MaxPrice = i.MaxPrice, i.MinPrice
	}
	return i
}

// stripJSONFences unwraps a fenced ```json block if the model added one.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
