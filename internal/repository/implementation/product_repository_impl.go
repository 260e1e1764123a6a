package implementation

import (
	"context"
	"errors"

	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/mapper"
	"ai-shopsearch-be/internal/model"
	"ai-shopsearch-be/internal/repository/contract"
	"ai-shopsearch-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) CreateBulk(ctx context.Context, products []*entity.Product) error {
	models := make([]*model.Product, len(products))
	for i, p := range products {
		models[i] = r.mapper.ToModel(p)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update IDs back to entities
	for i, m := range models {
		*products[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SearchByEmbedding runs the vector query with the price window pushed into
// the same WHERE clause. The returned total is the count of products matching
// that window, not the page size, so pagination stays consistent with the
// hard filter.
func (r *ProductRepositoryImpl) SearchByEmbedding(ctx context.Context, embedding []float32, minPrice, maxPrice *float64, limit, offset int) ([]*contract.ScoredProduct, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.Product
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// Shared between the count and the page query so total and rows can
	// never disagree about the filter.
	applyFilters := func(db *gorm.DB) *gorm.DB {
		db = db.Where("products.deleted_at IS NULL")
		if minPrice != nil {
			db = db.Where("products.price >= ?", *minPrice)
		}
		if maxPrice != nil {
			db = db.Where("products.price <= ?", *maxPrice)
		}
		return db
	}

	var total int64
	countQuery := applyFilters(r.db.WithContext(ctx).Table("products"))
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	searchQuery := applyFilters(r.db.WithContext(ctx).Table("products")).
		Select("products.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC, price ASC").
		Limit(limit).
		Offset(offset)

	if err := searchQuery.Scan(&results).Error; err != nil {
		return nil, 0, err
	}

	scoredProducts := make([]*contract.ScoredProduct, len(results))
	for i, res := range results {
		scoredProducts[i] = &contract.ScoredProduct{
			Product:    r.mapper.ToEntity(&res.Product),
			Similarity: res.Similarity,
		}
	}
	return scoredProducts, total, nil
}

// SearchCheapestByEmbedding is the fallback query: same vector ranking but
// without price predicates and ordered price-first, so the caller gets the
// cheapest alternatives when the price window matched nothing.
func (r *ProductRepositoryImpl) SearchCheapestByEmbedding(ctx context.Context, embedding []float32, limit, offset int) ([]*contract.ScoredProduct, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	type result struct {
		model.Product
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	var total int64
	countQuery := r.db.WithContext(ctx).
		Table("products").
		Where("products.deleted_at IS NULL")
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	searchQuery := r.db.WithContext(ctx).
		Table("products").
		Select("products.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("products.deleted_at IS NULL").
		Order("price ASC, similarity DESC").
		Limit(limit).
		Offset(offset)

	if err := searchQuery.Scan(&results).Error; err != nil {
		return nil, 0, err
	}

	scoredProducts := make([]*contract.ScoredProduct, len(results))
	for i, res := range results {
		scoredProducts[i] = &contract.ScoredProduct{
			Product:    r.mapper.ToEntity(&res.Product),
			Similarity: res.Similarity,
		}
	}
	return scoredProducts, total, nil
}

func (r *ProductRepositoryImpl) AutocompleteTitles(ctx context.Context, prefix string, minPrice, maxPrice *float64, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	query := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("title ILIKE ?", prefix+"%")
	if minPrice != nil {
		query = query.Where("price >= ?", *minPrice)
	}
	if maxPrice != nil {
		query = query.Where("price <= ?", *maxPrice)
	}

	var titles []string
	err := query.
		Order("title ASC").
		Limit(limit).
		Distinct().
		Pluck("title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *ProductRepositoryImpl) PriceStatistics(ctx context.Context) (*contract.PriceStatistics, error) {
	var stats contract.PriceStatistics

	// COALESCE keeps the aggregates at zero on an empty catalog instead of
	// scanning NULL into float64.
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select(`COALESCE(MIN(price), 0) as min,
			COALESCE(MAX(price), 0) as max,
			COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY price), 0) as median,
			COALESCE(PERCENTILE_CONT(0.25) WITHIN GROUP (ORDER BY price), 0) as p25,
			COALESCE(PERCENTILE_CONT(0.75) WITHIN GROUP (ORDER BY price), 0) as p75,
			COUNT(*) as count`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
