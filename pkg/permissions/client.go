// Package permissions reads roles and role-scoped users from the storefront
// permissions GraphQL app.
package permissions

import (
	"context"
	"strings"

	"github.com/angelmondragon/b2b-quotes/pkg/graphql"
)

// DefaultPageSize is the page size the permissions app serves when none is given.
const DefaultPageSize = 25

const (
	listRolesQuery = `query ListRoles {
  listRoles { id name slug }
}`
	listUsersQuery = `query ListUsersPaginated($roleId: ID, $organizationId: ID, $page: Int, $pageSize: Int) {
  listUsersPaginated(roleId: $roleId, organizationId: $organizationId, page: $page, pageSize: $pageSize) {
    data { id email name orgId costId roleId }
    pagination { page pageSize total }
  }
}`
)

// Role is a storefront permissions role.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// User is a role-scoped storefront user.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	OrgID  string `json:"orgId,omitempty"`
	CostID string `json:"costId,omitempty"`
	RoleID string `json:"roleId,omitempty"`
}

// ListUsersParams filters the users listing.
type ListUsersParams struct {
	RoleID         string
	OrganizationID string
	Page           int
	PageSize       int
}

type doer interface {
	Do(ctx context.Context, query string, variables map[string]any, out any) error
}

// Client talks to the permissions app.
type Client struct {
	gql doer
}

// NewClient wraps a GraphQL client pointed at the permissions endpoint.
func NewClient(gql *graphql.Client) *Client {
	return &Client{gql: gql}
}

// ListRoles returns every role the permissions app knows.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var data struct {
		ListRoles []Role `json:"listRoles"`
	}
	if err := c.gql.Do(ctx, listRolesQuery, nil, &data); err != nil {
		return nil, err
	}
	return data.ListRoles, nil
}

// ListUsers returns a single page of users holding the role. Callers that
// need every user must page themselves.
func (c *Client) ListUsers(ctx context.Context, params ListUsersParams) ([]User, error) {
	variables := map[string]any{"roleId": params.RoleID}
	if org := strings.TrimSpace(params.OrganizationID); org != "" {
		variables["organizationId"] = org
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	variables["page"] = page
	variables["pageSize"] = pageSize

	var data struct {
		ListUsersPaginated struct {
			Data []User `json:"data"`
		} `json:"listUsersPaginated"`
	}
	if err := c.gql.Do(ctx, listUsersQuery, variables, &data); err != nil {
		return nil, err
	}
	return data.ListUsersPaginated.Data, nil
}
