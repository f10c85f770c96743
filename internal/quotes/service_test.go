package quotes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-quotes/pkg/db/models"
	"github.com/angelmondragon/b2b-quotes/pkg/directory"
	pkgerrors "github.com/angelmondragon/b2b-quotes/pkg/errors"
	"github.com/angelmondragon/b2b-quotes/pkg/pagination"
)

type fakeRepository struct {
	mu       sync.Mutex
	calls    []SearchParams
	searchFn func(ctx context.Context, params SearchParams) ([]models.Quote, pagination.Page, error)
}

func (f *fakeRepository) Search(ctx context.Context, params SearchParams) ([]models.Quote, pagination.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	f.mu.Unlock()
	if f.searchFn != nil {
		return f.searchFn(ctx, params)
	}
	return nil, pagination.Page{}, nil
}

type fakeResolver struct {
	lenientFn func(ctx context.Context, orgID, costCenterID string) Names
}

func (f *fakeResolver) Lenient(ctx context.Context, orgID, costCenterID string) Names {
	if f.lenientFn != nil {
		return f.lenientFn(ctx, orgID, costCenterID)
	}
	return Names{OrganizationName: strPtr("Org " + orgID), CostCenterName: strPtr("CC " + costCenterID)}
}

func newTestService(t *testing.T, repo Repository, resolver Resolver) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Resolver: resolver})
	require.NoError(t, err)
	return svc
}

func quotesN(n int) []models.Quote {
	rows := make([]models.Quote, n)
	for i := range rows {
		id := fmt.Sprintf("q%02d", i)
		rows[i] = models.Quote{ID: id, Seller: "seller-a", Organization: "o" + id, CostCenter: "c" + id}
	}
	return rows
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Resolver: &fakeResolver{}})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))

	_, err = NewService(ServiceParams{Repo: &fakeRepository{}})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestGetNotFound(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, &fakeResolver{})

	_, err := svc.Get(context.Background(), "seller-a", "missing")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, ErrMarkerQuoteNotFound, typed.Message())

	require.Len(t, repo.calls, 1)
	assert.Equal(t, "seller=seller-a AND (id=missing)", repo.calls[0].Predicate.Scoped(repo.calls[0].Seller))
}

func TestGetEnrichesSingleRecord(t *testing.T) {
	repo := &fakeRepository{
		searchFn: func(context.Context, SearchParams) ([]models.Quote, pagination.Page, error) {
			return quotesN(1), pagination.Page{}, nil
		},
	}
	svc := newTestService(t, repo, &fakeResolver{})

	quote, err := svc.Get(context.Background(), "seller-a", "q00")
	require.NoError(t, err)
	assert.Equal(t, "q00", quote.ID)
	require.NotNil(t, quote.OrganizationName)
	assert.Equal(t, "Org oq00", *quote.OrganizationName)
	assert.Equal(t, "CC cq00", *quote.CostCenterName)
}

func TestGetRequiresSeller(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeResolver{})
	_, err := svc.Get(context.Background(), "", "q1")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
}

func TestListPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store unreachable")
	repo := &fakeRepository{
		searchFn: func(context.Context, SearchParams) ([]models.Quote, pagination.Page, error) {
			return nil, pagination.Page{}, storeErr
		},
	}
	svc := newTestService(t, repo, &fakeResolver{})

	_, err := svc.List(context.Background(), ListParams{Seller: "seller-a"})
	require.Error(t, err)
	assert.Same(t, storeErr, err)
	assert.Nil(t, pkgerrors.As(err))
}

func TestGetPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("store unreachable")
	repo := &fakeRepository{
		searchFn: func(context.Context, SearchParams) ([]models.Quote, pagination.Page, error) {
			return nil, pagination.Page{}, storeErr
		},
	}
	svc := newTestService(t, repo, &fakeResolver{})

	_, err := svc.Get(context.Background(), "seller-a", "q1")
	assert.Same(t, storeErr, err)
}

func TestListBuildsSearch(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, &fakeResolver{})

	_, err := svc.List(context.Background(), ListParams{
		Seller: "seller-a",
		Filter: FilterParams{Search: "foo bar"},
		Page:   pagination.Params{Page: -3, PageSize: 0},
	})
	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	call := repo.calls[0]
	assert.Equal(t, pagination.Params{Page: 1, PageSize: 25}, call.Page)
	assert.Equal(t, "creationDate DESC", call.Sort.String())
	assert.Equal(t, "(referenceName='*foo*bar*' OR creatorEmail='*foo*bar*')", call.Predicate.String())
}

func TestListKeepsOrderAndDegradesPerRecord(t *testing.T) {
	rows := quotesN(40)
	page := pagination.Page{Page: 1, PageSize: 40, Total: 40, Pages: 1}
	repo := &fakeRepository{
		searchFn: func(context.Context, SearchParams) ([]models.Quote, pagination.Page, error) {
			return rows, page, nil
		},
	}
	dir := &fakeDirectory{
		getOrgFn: func(_ context.Context, id string) (directory.Organization, error) {
			// Earlier records finish later so completion order is reversed.
			var index int
			_, _ = fmt.Sscanf(id, "oq%02d", &index)
			time.Sleep(time.Duration(40-index) * 200 * time.Microsecond)
			if id == "oq07" {
				return directory.Organization{}, errors.New("timeout")
			}
			return directory.Organization{ID: id, Name: strPtr("Org " + id)}, nil
		},
		getCostCenterFn: func(_ context.Context, id string) (directory.CostCenter, error) {
			if id == "cq07" {
				return directory.CostCenter{}, errors.New("timeout")
			}
			return directory.CostCenter{ID: id, Name: strPtr("CC " + id)}, nil
		},
	}
	svc := newTestService(t, repo, NewNameResolver(dir, nil))

	result, err := svc.List(context.Background(), ListParams{Seller: "seller-a"})
	require.NoError(t, err)
	require.Len(t, result.Data, len(rows))
	assert.Equal(t, page, result.Pagination)

	for i, quote := range result.Data {
		assert.Equal(t, rows[i].ID, quote.ID)
		if quote.ID == "q07" {
			assert.Nil(t, quote.OrganizationName)
			assert.Nil(t, quote.CostCenterName)
			continue
		}
		require.NotNil(t, quote.OrganizationName, quote.ID)
		require.NotNil(t, quote.CostCenterName, quote.ID)
		assert.Equal(t, "Org o"+quote.ID, *quote.OrganizationName)
	}
}

func TestListCapsInFlightResolutions(t *testing.T) {
	rows := quotesN(60)
	repo := &fakeRepository{
		searchFn: func(context.Context, SearchParams) ([]models.Quote, pagination.Page, error) {
			return rows, pagination.Page{}, nil
		},
	}

	var inFlight, peak int32
	resolver := &fakeResolver{
		lenientFn: func(_ context.Context, orgID, _ string) Names {
			current := atomic.AddInt32(&inFlight, 1)
			for {
				seen := atomic.LoadInt32(&peak)
				if current <= seen || atomic.CompareAndSwapInt32(&peak, seen, current) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return Names{OrganizationName: strPtr(orgID)}
		},
	}
	svc := newTestService(t, repo, resolver)

	result, err := svc.List(context.Background(), ListParams{Seller: "seller-a"})
	require.NoError(t, err)
	require.Len(t, result.Data, 60)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(DefaultConcurrency))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestListEmptyPage(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeResolver{})

	result, err := svc.List(context.Background(), ListParams{Seller: "seller-a"})
	require.NoError(t, err)
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
}
