package mapper

import (
	"encoding/json"

	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/model"

	"gorm.io/datatypes"
)

type SearchEventMapper struct{}

func NewSearchEventMapper() *SearchEventMapper {
	return &SearchEventMapper{}
}

func (m *SearchEventMapper) ToEntity(e *model.SearchEvent) *entity.SearchEvent {
	if e == nil {
		return nil
	}

	return &entity.SearchEvent{
		Id:             e.Id,
		Query:          e.Query,
		SearchType:     e.SearchType,
		Filters:        filtersFromJSON(e.Filters),
		ResultCount:    e.ResultCount,
		Page:           e.Page,
		PageSize:       e.PageSize,
		ResponseTimeMs: e.ResponseTimeMs,
		CacheHit:       e.CacheHit,
		FallbackUsed:   e.FallbackUsed,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SearchEventMapper) ToModel(e *entity.SearchEvent) *model.SearchEvent {
	if e == nil {
		return nil
	}

	return &model.SearchEvent{
		Id:             e.Id,
		Query:          e.Query,
		SearchType:     e.SearchType,
		Filters:        filtersToJSON(e.Filters),
		ResultCount:    e.ResultCount,
		Page:           e.Page,
		PageSize:       e.PageSize,
		ResponseTimeMs: e.ResponseTimeMs,
		CacheHit:       e.CacheHit,
		FallbackUsed:   e.FallbackUsed,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SearchEventMapper) ToEntities(events []*model.SearchEvent) []*entity.SearchEvent {
	entities := make([]*entity.SearchEvent, len(events))
	for i, e := range events {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func filtersToJSON(filters map[string]interface{}) datatypes.JSON {
	if len(filters) == 0 {
		return datatypes.JSON([]byte("{}"))
	}
	b, err := json.Marshal(filters)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}

func filtersFromJSON(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var filters map[string]interface{}
	if err := json.Unmarshal(data, &filters); err != nil {
		return nil
	}
	return filters
}
