package quotes

import (
	"context"
	"time"

	"github.com/angelmondragon/b2b-quotes/pkg/db/models"
	"github.com/angelmondragon/b2b-quotes/pkg/enums"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/pagination"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrMarkerQuoteNotFound is the message carried by the NotFound error for a
// single quote fetch.
const ErrMarkerQuoteNotFound = "seller-quote-not-found"

// DefaultConcurrency caps the in-flight name resolutions during list enrichment.
const DefaultConcurrency = 15

// Service defines the seller quote read operations.
type Service interface {
	Get(ctx context.Context, seller, id string) (*EnrichedQuote, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// Resolver is the lenient name lookup the service decorates quotes with.
type Resolver interface {
	Lenient(ctx context.Context, orgID, costCenterID string) Names
}

type service struct {
	repo        Repository
	resolver    Resolver
	concurrency int
}

// ServiceParams wires the quote service dependencies.
type ServiceParams struct {
	Repo     Repository
	Resolver Resolver
	// Concurrency overrides DefaultConcurrency when positive. Tests only;
	// production wiring leaves it zero.
	Concurrency int
}

// ListParams configures one list request.
type ListParams struct {
	Seller  string
	Filter  FilterParams
	Page    pagination.Params
	IsValid Validity
}

// ListResult is the list response body.
type ListResult struct {
	Data       []EnrichedQuote `json:"data"`
	Pagination pagination.Page `json:"pagination"`
}

// EnrichedQuote is a quote decorated with resolved directory names.
type EnrichedQuote struct {
	ID               string               `json:"id"`
	Seller           string               `json:"seller"`
	Organization     string               `json:"organization"`
	OrganizationName *string              `json:"organizationName"`
	CostCenter       string               `json:"costCenter"`
	CostCenterName   *string              `json:"costCenterName"`
	ReferenceName    string               `json:"referenceName"`
	CreatorEmail     string               `json:"creatorEmail"`
	CreatorRole      string               `json:"creatorRole,omitempty"`
	Status           enums.QuoteStatus    `json:"status"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	Items            []models.QuoteItem   `json:"items"`
	UpdateHistory    []models.QuoteUpdate `json:"updateHistory"`
	ExpirationDate   *time.Time           `json:"expirationDate,omitempty"`
	CreationDate     time.Time            `json:"creationDate"`
	LastUpdate       time.Time            `json:"lastUpdate"`
}

// NewService wires quote dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "quotes repository required")
	}
	if params.Resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "name resolver required")
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &service{repo: params.Repo, resolver: params.Resolver, concurrency: concurrency}, nil
}

func (s *service) Get(ctx context.Context, seller, id string) (*EnrichedQuote, error) {
	if seller == "" {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller scope required")
	}
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}

	rows, _, err := s.repo.Search(ctx, SearchParams{
		Seller:    seller,
		Predicate: IDEquals(id),
		Page:      pagination.Params{Page: 1, PageSize: 1},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, ErrMarkerQuoteNotFound)
	}

	enriched := s.enrich(ctx, rows[0])
	return &enriched, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Seller == "" {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller scope required")
	}

	rows, page, err := s.repo.Search(ctx, SearchParams{
		Seller:    params.Seller,
		Predicate: BuildFilter(params.Filter, params.IsValid),
		Sort:      SortCreationDateDesc,
		Page:      pagination.Normalize(params.Page),
	})
	if err != nil {
		return nil, err
	}

	// Results are written by index so the output keeps the store's order.
	enriched := make([]EnrichedQuote, len(rows))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range rows {
		g.Go(func() error {
			enriched[i] = s.enrich(ctx, rows[i])
			return nil
		})
	}
	_ = g.Wait()

	return &ListResult{Data: enriched, Pagination: page}, nil
}

func (s *service) enrich(ctx context.Context, quote models.Quote) EnrichedQuote {
	names := s.resolver.Lenient(ctx, quote.Organization, quote.CostCenter)
	out := FromModel(quote)
	out.OrganizationName = names.OrganizationName
	out.CostCenterName = names.CostCenterName
	return out
}

// FromModel copies a stored quote into its response shape without names.
func FromModel(q models.Quote) EnrichedQuote {
	return EnrichedQuote{
		ID:             q.ID,
		Seller:         q.Seller,
		Organization:   q.Organization,
		CostCenter:     q.CostCenter,
		ReferenceName:  q.ReferenceName,
		CreatorEmail:   q.CreatorEmail,
		CreatorRole:    q.CreatorRole,
		Status:         q.Status,
		Subtotal:       q.Subtotal,
		Items:          q.Items,
		UpdateHistory:  q.UpdateHistory,
		ExpirationDate: q.ExpirationDate,
		CreationDate:   q.CreationDate,
		LastUpdate:     q.LastUpdate,
	}
}
