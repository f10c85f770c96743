package permissions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-quotes/pkg/graphql"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func TestListRoles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"listRoles":[{"id":"r1","name":"Sales Admin","slug":"sales-admin"},{"id":"r2","name":"Buyer","slug":"customer-buyer"}]}}`))
	}))
	defer srv.Close()

	gql, err := graphql.NewClient(srv.URL)
	require.NoError(t, err)

	roles, err := NewClient(gql).ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "sales-admin", roles[0].Slug)
}

func TestListUsersSendsScope(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":{"listUsersPaginated":{"data":[{"id":"u1","email":"a@acme.com"}],"pagination":{"page":1,"pageSize":25,"total":1}}}}`))
	}))
	defer srv.Close()

	gql, err := graphql.NewClient(srv.URL)
	require.NoError(t, err)

	users, err := NewClient(gql).ListUsers(context.Background(), ListUsersParams{RoleID: "r1", OrganizationID: "org-1"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@acme.com", users[0].Email)

	assert.True(t, strings.Contains(got.Query, "listUsersPaginated"))
	assert.Equal(t, "r1", got.Variables["roleId"])
	assert.Equal(t, "org-1", got.Variables["organizationId"])
	assert.EqualValues(t, 1, got.Variables["page"])
	assert.EqualValues(t, DefaultPageSize, got.Variables["pageSize"])
}

func TestListUsersOmitsEmptyOrganization(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":{"listUsersPaginated":{"data":[]}}}`))
	}))
	defer srv.Close()

	gql, err := graphql.NewClient(srv.URL)
	require.NoError(t, err)

	users, err := NewClient(gql).ListUsers(context.Background(), ListUsersParams{RoleID: "r1"})
	require.NoError(t, err)
	assert.Empty(t, users)
	_, present := got.Variables["organizationId"]
	assert.False(t, present)
}
