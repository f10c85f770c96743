package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilterSearch(t *testing.T) {
	pred := BuildFilter(FilterParams{Search: "foo bar"}, nil)

	assert.Equal(t, "(referenceName='*foo*bar*' OR creatorEmail='*foo*bar*')", pred.String())
	assert.Equal(t, "seller=seller-1 AND ((referenceName='*foo*bar*' OR creatorEmail='*foo*bar*'))", pred.Scoped("seller-1"))
}

func TestBuildFilterSearchAndStatus(t *testing.T) {
	pred := BuildFilter(FilterParams{Search: "acme", Status: "ready"}, nil)

	assert.Equal(t, "(referenceName='*acme*' OR creatorEmail='*acme*') AND (status=ready)", pred.String())
}

func TestBuildFilterIgnoresInvalid(t *testing.T) {
	pred := BuildFilter(FilterParams{Search: "   ", Status: ""}, nil)
	assert.True(t, pred.Empty())
	assert.Equal(t, "seller=s", pred.Scoped("s"))

	rejectAll := func(string) bool { return false }
	pred = BuildFilter(FilterParams{Search: "foo", Status: "ready"}, rejectAll)
	assert.True(t, pred.Empty())
}

func TestSearchTerm(t *testing.T) {
	cases := map[string]string{
		"foo":              "*foo*",
		"foo bar":          "*foo*bar*",
		"  foo \t  bar\n ": "*foo*bar*",
		"o'neil's shop":    "*oneils*shop*",
		"'":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SearchTerm(in), "input %q", in)
	}
}

func TestIDEquals(t *testing.T) {
	assert.Equal(t, "seller=s AND (id=q-1)", IDEquals("q-1").Scoped("s"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%foo%bar%", likePattern("*foo*bar*"))
	assert.Equal(t, `%50\%\_off%`, likePattern("*50%_off*"))
}

func TestSortString(t *testing.T) {
	assert.Equal(t, "creationDate DESC", SortCreationDateDesc.String())
	assert.Equal(t, "creation_date DESC", SortCreationDateDesc.orderClause())
	assert.Equal(t, "", Sort{}.String())
}
