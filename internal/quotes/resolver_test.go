package quotes

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/b2b-quotes/pkg/directory"
	"github.com/angelmondragon/b2b-quotes/pkg/logger"
)

type fakeDirectory struct {
	mu              sync.Mutex
	orgCalls        []string
	getOrgFn        func(ctx context.Context, id string) (directory.Organization, error)
	getCostCenterFn func(ctx context.Context, id string) (directory.CostCenter, error)
}

func (f *fakeDirectory) GetOrganization(ctx context.Context, id string) (directory.Organization, error) {
	f.mu.Lock()
	f.orgCalls = append(f.orgCalls, id)
	f.mu.Unlock()
	if f.getOrgFn != nil {
		return f.getOrgFn(ctx, id)
	}
	return directory.Organization{ID: id, Name: strPtr("Org " + id)}, nil
}

func (f *fakeDirectory) GetCostCenter(ctx context.Context, id string) (directory.CostCenter, error) {
	if f.getCostCenterFn != nil {
		return f.getCostCenterFn(ctx, id)
	}
	return directory.CostCenter{ID: id, Name: strPtr("CC " + id)}, nil
}

func strPtr(value string) *string {
	return &value
}

func newTestLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: buf})
}

func TestLenientResolvesBothNames(t *testing.T) {
	resolver := NewNameResolver(&fakeDirectory{}, nil)

	names := resolver.Lenient(context.Background(), "o1", "c1")
	require.NotNil(t, names.OrganizationName)
	require.NotNil(t, names.CostCenterName)
	assert.Equal(t, "Org o1", *names.OrganizationName)
	assert.Equal(t, "CC c1", *names.CostCenterName)
	assert.True(t, names.Complete())
}

func TestLenientDegradesFailedLookup(t *testing.T) {
	var buf bytes.Buffer
	dir := &fakeDirectory{
		getCostCenterFn: func(context.Context, string) (directory.CostCenter, error) {
			return directory.CostCenter{}, errors.New("directory unavailable")
		},
	}
	resolver := NewNameResolver(dir, newTestLogger(&buf))

	names := resolver.Lenient(context.Background(), "o1", "c1")
	require.NotNil(t, names.OrganizationName)
	assert.Nil(t, names.CostCenterName)
	assert.False(t, names.Complete())

	out := buf.String()
	assert.Contains(t, out, logCostCenterNameError)
	assert.Contains(t, out, "directory unavailable")
	assert.NotContains(t, out, logOrganizationNameError)
}

func TestLenientKeepsMissingNameNil(t *testing.T) {
	dir := &fakeDirectory{
		getOrgFn: func(_ context.Context, id string) (directory.Organization, error) {
			return directory.Organization{ID: id}, nil
		},
	}
	resolver := NewNameResolver(dir, nil)

	names := resolver.Lenient(context.Background(), "o1", "c1")
	assert.Nil(t, names.OrganizationName)
	assert.NotNil(t, names.CostCenterName)
}

func TestLenientSkipsEmptyIDs(t *testing.T) {
	dir := &fakeDirectory{}
	resolver := NewNameResolver(dir, nil)

	names := resolver.Lenient(context.Background(), "", "c1")
	assert.Nil(t, names.OrganizationName)
	assert.NotNil(t, names.CostCenterName)
	assert.Empty(t, dir.orgCalls)
}

func TestStrictFailureNullsBoth(t *testing.T) {
	var buf bytes.Buffer
	dir := &fakeDirectory{
		getOrgFn: func(context.Context, string) (directory.Organization, error) {
			return directory.Organization{}, errors.New("boom")
		},
	}
	resolver := NewNameResolver(dir, newTestLogger(&buf))

	names := resolver.Strict(context.Background(), "o1", "c1")
	assert.Nil(t, names.OrganizationName)
	assert.Nil(t, names.CostCenterName)
	assert.True(t, strings.Contains(buf.String(), logStrictNamesError))
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestStrictTreatsEmptyNameAsMissing(t *testing.T) {
	dir := &fakeDirectory{
		getCostCenterFn: func(_ context.Context, id string) (directory.CostCenter, error) {
			return directory.CostCenter{ID: id, Name: strPtr("")}, nil
		},
	}
	resolver := NewNameResolver(dir, nil)

	names := resolver.Strict(context.Background(), "o1", "c1")
	assert.NotNil(t, names.OrganizationName)
	assert.Nil(t, names.CostCenterName)
	assert.False(t, names.Complete())
}

func TestStrictSuccess(t *testing.T) {
	resolver := NewNameResolver(&fakeDirectory{}, nil)

	names := resolver.Strict(context.Background(), "o1", "c1")
	assert.True(t, names.Complete())
	assert.Equal(t, "Org o1", *names.OrganizationName)
}
