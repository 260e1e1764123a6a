package implementation

import (
	"context"
	"time"

	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/mapper"
	"ai-shopsearch-be/internal/model"
	"ai-shopsearch-be/internal/repository/contract"
	"ai-shopsearch-be/internal/repository/specification"

	"gorm.io/gorm"
)

type SearchEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SearchEventMapper
}

func NewSearchEventRepository(db *gorm.DB) contract.SearchEventRepository {
	return &SearchEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewSearchEventMapper(),
	}
}

func (r *SearchEventRepositoryImpl) Create(ctx context.Context, event *entity.SearchEvent) error {
	m := r.mapper.ToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.ToEntity(m)
	return nil
}

func (r *SearchEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SearchEvent, error) {
	var models []*model.SearchEvent
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SearchEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.SearchEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SearchEventRepositoryImpl) PopularQueries(ctx context.Context, since time.Time, limit int) ([]*contract.PopularQuery, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []*contract.PopularQuery
	err := r.db.WithContext(ctx).
		Model(&model.SearchEvent{}).
		Select("query, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("query").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
