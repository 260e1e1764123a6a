package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/pkg/logger"
	"ai-shopsearch-be/internal/repository/memory"
	"ai-shopsearch-be/internal/repository/unitofwork"
	"ai-shopsearch-be/pkg/events"
	pktNats "ai-shopsearch-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the SEARCH_PERFORMED topic: persist the event row,
// bump the popular-searches leaderboard, republish on NATS when configured.
// Analytics are best effort, every failure is logged and the message acked,
// a broken sink must never stall the subscriber loop.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	popularRepo    *memory.PopularSearchesRepository
	eventPublisher *pktNats.Publisher // nil when NATS is not configured
	log            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	popularRepo *memory.PopularSearchesRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		popularRepo:    popularRepo,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Ack in every branch. Redelivering a poison or half-processed message
	// would either loop forever or duplicate the persisted row.
	defer msg.Ack()

	var payload dto.SearchPerformedEvent
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Warn("analytics", "failed to unmarshal search event, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	event := &entity.SearchEvent{
		Id:             uuid.New(),
		Query:          payload.Query,
		SearchType:     payload.SearchType,
		Filters:        payload.Filters,
		ResultCount:    payload.ResultCount,
		Page:           payload.Page,
		PageSize:       payload.Limit,
		ResponseTimeMs: payload.ResponseTimeMs,
		CacheHit:       payload.CacheHit,
		FallbackUsed:   payload.FallbackUsed,
		CreatedAt:      occurredAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SearchEventRepository().Create(ctx, event); err != nil {
		cs.log.Error("analytics", "failed to persist search event, dropping", map[string]interface{}{
			"query": payload.Query,
			"error": err.Error(),
		})
		return
	}

	if query := strings.ToLower(strings.TrimSpace(payload.Query)); query != "" {
		if err := cs.popularRepo.Bump(ctx, query); err != nil {
			cs.log.Warn("analytics", "failed to bump popular searches", map[string]interface{}{
				"query": query,
				"error": err.Error(),
			})
		}
	}

	if cs.eventPublisher != nil {
		evt := events.NewSearchPerformed(map[string]interface{}{
			"query":              payload.Query,
			"search_type":        payload.SearchType,
			"filters":            payload.Filters,
			"result_count":       payload.ResultCount,
			"response_time_ms":   payload.ResponseTimeMs,
			"cache_hit":          payload.CacheHit,
			"fallback_used":      payload.FallbackUsed,
			"strategies_applied": payload.StrategiesApplied,
		}, occurredAt)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.log.Warn("analytics", "failed to republish search event on NATS", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	cs.log.Debug("analytics", "search event recorded", map[string]interface{}{
		"query":         payload.Query,
		"result_count":  payload.ResultCount,
		"cache_hit":     payload.CacheHit,
		"fallback_used": payload.FallbackUsed,
	})
}
