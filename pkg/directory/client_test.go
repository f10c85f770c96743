package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-quotes/pkg/graphql"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gql, err := graphql.NewClient(srv.URL)
	require.NoError(t, err)
	return NewClient(gql)
}

func TestGetOrganization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"getOrganizationById":{"id":"org-1","name":"Acme Corp","status":"active"}}}`))
	})

	org, err := client.GetOrganization(context.Background(), "org-1")
	require.NoError(t, err)
	require.NotNil(t, org.Name)
	assert.Equal(t, "Acme Corp", *org.Name)
}

func TestGetOrganizationMissingRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"getOrganizationById":null}}`))
	})

	org, err := client.GetOrganization(context.Background(), "org-404")
	require.NoError(t, err)
	assert.Equal(t, "org-404", org.ID)
	assert.Nil(t, org.Name)
}

func TestGetCostCenter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"getCostCenterById":{"id":"cc-1","name":"HQ","organization":"org-1"}}}`))
	})

	cc, err := client.GetCostCenter(context.Background(), "cc-1")
	require.NoError(t, err)
	require.NotNil(t, cc.Name)
	assert.Equal(t, "HQ", *cc.Name)
	assert.Equal(t, "org-1", cc.Organization)
}

func TestGetCostCenterError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GetCostCenter(context.Background(), "cc-1")
	assert.Error(t, err)
}
