package quotes

import (
	"context"

	"github.com/angelmondragon/b2b-quotes/internal/repo"
	"github.com/angelmondragon/b2b-quotes/pkg/db/models"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"github.com/angelmondragon/b2b-quotes/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes the seller-scoped quote search.
type Repository interface {
	Search(ctx context.Context, params SearchParams) ([]models.Quote, pagination.Page, error)
}

// SearchParams configures one scoped search.
type SearchParams struct {
	Seller    string
	Predicate Predicate
	Sort      Sort
	Page      pagination.Params
}

type repositoryImpl struct {
	repo.Base
	logg *logger.Logger
}

// NewRepository returns a quotes repository bound to the provided database.
// logg may be nil.
func NewRepository(db *gorm.DB, logg *logger.Logger) Repository {
	return &repositoryImpl{Base: repo.NewBase(db), logg: logg}
}

func (r *repositoryImpl) Search(ctx context.Context, params SearchParams) ([]models.Quote, pagination.Page, error) {
	page := pagination.Normalize(params.Page)
	if r.logg != nil {
		r.logg.Debug(r.logg.WithFields(ctx, map[string]any{
			"where":     params.Predicate.Scoped(params.Seller),
			"sort":      params.Sort.String(),
			"page":      page.Page,
			"page_size": page.PageSize,
		}), "quotes.search")
	}
	scoped := func() *gorm.DB {
		return params.Predicate.Apply(r.Tenant(ctx, &models.Quote{}, "seller", params.Seller))
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	query := scoped()
	if order := params.Sort.orderClause(); order != "" {
		query = query.Order(order)
	}

	var rows []models.Quote
	if err := query.Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error; err != nil {
		return nil, pagination.Page{}, err
	}
	return rows, pagination.NewPage(page, total), nil
}
