// Package directory resolves organization and cost-center records from the
// B2B organizations GraphQL app.
package directory

import (
	"context"

	"github.com/angelmondragon/b2b-quotes/pkg/graphql"
)

const (
	organizationQuery = `query GetOrganizationById($id: ID) {
  getOrganizationById(id: $id) { id name status }
}`
	costCenterQuery = `query GetCostCenterById($id: ID!) {
  getCostCenterById(id: $id) { id name organization }
}`
)

// Organization is the subset of the directory's organization record this
// service reads. Name is nil when the directory returned no name.
type Organization struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	Status string  `json:"status,omitempty"`
}

// CostCenter is the subset of the directory's cost-center record this service reads.
type CostCenter struct {
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	Organization string  `json:"organization,omitempty"`
}

type doer interface {
	Do(ctx context.Context, query string, variables map[string]any, out any) error
}

// Client looks up directory records.
type Client struct {
	gql doer
}

// NewClient wraps a GraphQL client pointed at the organizations endpoint.
func NewClient(gql *graphql.Client) *Client {
	return &Client{gql: gql}
}

// GetOrganization fetches one organization. A missing record yields a zero
// Organization with a nil Name, not an error.
func (c *Client) GetOrganization(ctx context.Context, id string) (Organization, error) {
	var data struct {
		GetOrganizationByID *Organization `json:"getOrganizationById"`
	}
	if err := c.gql.Do(ctx, organizationQuery, map[string]any{"id": id}, &data); err != nil {
		return Organization{}, err
	}
	if data.GetOrganizationByID == nil {
		return Organization{ID: id}, nil
	}
	return *data.GetOrganizationByID, nil
}

// GetCostCenter fetches one cost center with the same absent-record semantics
// as GetOrganization.
func (c *Client) GetCostCenter(ctx context.Context, id string) (CostCenter, error) {
	var data struct {
		GetCostCenterByID *CostCenter `json:"getCostCenterById"`
	}
	if err := c.gql.Do(ctx, costCenterQuery, map[string]any{"id": id}, &data); err != nil {
		return CostCenter{}, err
	}
	if data.GetCostCenterByID == nil {
		return CostCenter{ID: id}, nil
	}
	return *data.GetCostCenterByID, nil
}
