package quotes

import (
	"context"

	"github.com/angelmondragon/b2b-quotes/pkg/directory"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	logOrganizationNameError = "getOrganizationName-error"
	logCostCenterNameError   = "getCostCenterName-error"
	logStrictNamesError      = "quoteUpdatedMessage-getOrgNamesError"
)

// Directory is the organizations lookup used to resolve display names.
type Directory interface {
	GetOrganization(ctx context.Context, id string) (directory.Organization, error)
	GetCostCenter(ctx context.Context, id string) (directory.CostCenter, error)
}

// Names holds resolved display names; nil means unresolved.
type Names struct {
	OrganizationName *string
	CostCenterName   *string
}

// Complete reports whether both names resolved to a non-empty value.
func (n Names) Complete() bool {
	return n.OrganizationName != nil && *n.OrganizationName != "" &&
		n.CostCenterName != nil && *n.CostCenterName != ""
}

// NameResolver resolves organization and cost-center names concurrently.
type NameResolver struct {
	dir  Directory
	logg *logger.Logger
}

// NewNameResolver wires a resolver over the directory client.
func NewNameResolver(dir Directory, logg *logger.Logger) *NameResolver {
	return &NameResolver{dir: dir, logg: logg}
}

// Lenient resolves both names, degrading each failed lookup to nil after
// logging a warning. It never fails.
func (r *NameResolver) Lenient(ctx context.Context, orgID, costCenterID string) Names {
	var (
		names Names
		g     errgroup.Group
	)
	g.Go(func() error {
		name, err := r.organizationName(ctx, orgID)
		if err != nil {
			r.warn(ctx, logOrganizationNameError, err)
			return nil
		}
		names.OrganizationName = name
		return nil
	})
	g.Go(func() error {
		name, err := r.costCenterName(ctx, costCenterID)
		if err != nil {
			r.warn(ctx, logCostCenterNameError, err)
			return nil
		}
		names.CostCenterName = name
		return nil
	})
	_ = g.Wait()
	return names
}

// Strict resolves both names or neither. Any lookup failure is logged and
// yields two nil names; an empty name also reads as nil.
func (r *NameResolver) Strict(ctx context.Context, orgID, costCenterID string) Names {
	var names Names
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		name, err := r.organizationName(gctx, orgID)
		names.OrganizationName = nonEmpty(name)
		return err
	})
	g.Go(func() error {
		name, err := r.costCenterName(gctx, costCenterID)
		names.CostCenterName = nonEmpty(name)
		return err
	})
	if err := g.Wait(); err != nil {
		if r.logg != nil {
			r.logg.Error(ctx, logStrictNamesError, err)
		}
		return Names{}
	}
	return names
}

func (r *NameResolver) organizationName(ctx context.Context, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	org, err := r.dir.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	return org.Name, nil
}

func (r *NameResolver) costCenterName(ctx context.Context, id string) (*string, error) {
	if id == "" {
		return nil, nil
	}
	cc, err := r.dir.GetCostCenter(ctx, id)
	if err != nil {
		return nil, err
	}
	return cc.Name, nil
}

func (r *NameResolver) warn(ctx context.Context, msg string, err error) {
	if r.logg == nil {
		return
	}
	r.logg.Warn(r.logg.WithError(ctx, err), msg)
}

func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
