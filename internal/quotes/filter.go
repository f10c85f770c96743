package quotes

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const wildcard = "*"

// field maps a document-store field name onto its relational column.
type field struct {
	name   string
	column string
}

var (
	fieldID            = field{name: "id", column: "id"}
	fieldReferenceName = field{name: "referenceName", column: "reference_name"}
	fieldCreatorEmail  = field{name: "creatorEmail", column: "creator_email"}
	fieldStatus        = field{name: "status", column: "status"}
	fieldCreationDate  = field{name: "creationDate", column: "creation_date"}
)

type clauseKind int

const (
	clauseEquals clauseKind = iota
	clauseContains
)

// clause is one parenthesised sub-predicate. Contains clauses OR their fields
// together against the same wildcard term.
type clause struct {
	kind   clauseKind
	fields []field
	value  string
}

// Predicate is an AND-combination of zero or more clauses. The zero value
// matches every record in the seller's scope.
type Predicate struct {
	clauses []clause
}

// Validity reports whether a raw query value should produce a clause.
type Validity func(value string) bool

// NonEmpty is the default validity check: a value is valid when it holds
// anything other than whitespace.
func NonEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// FilterParams are the raw list filters taken from the query string.
type FilterParams struct {
	Search string
	Status string
}

// BuildFilter turns raw search and status values into a predicate. Values
// rejected by valid are ignored; a nil valid falls back to NonEmpty.
func BuildFilter(params FilterParams, valid Validity) Predicate {
	if valid == nil {
		valid = NonEmpty
	}

	var pred Predicate
	if valid(params.Search) {
		if term := SearchTerm(params.Search); term != "" {
			pred.clauses = append(pred.clauses, clause{
				kind:   clauseContains,
				fields: []field{fieldReferenceName, fieldCreatorEmail},
				value:  term,
			})
		}
	}
	if valid(params.Status) {
		pred.clauses = append(pred.clauses, clause{
			kind:   clauseEquals,
			fields: []field{fieldStatus},
			value:  params.Status,
		})
	}
	return pred
}

// SearchTerm strips single quotes, joins the whitespace separated tokens with
// wildcards and wraps the result in leading and trailing wildcards. Input with
// no tokens left yields "".
func SearchTerm(search string) string {
	tokens := strings.Fields(strings.ReplaceAll(search, "'", ""))
	if len(tokens) == 0 {
		return ""
	}
	return wildcard + strings.Join(tokens, wildcard) + wildcard
}

// IDEquals matches a single record by identifier.
func IDEquals(id string) Predicate {
	return Predicate{clauses: []clause{{kind: clauseEquals, fields: []field{fieldID}, value: id}}}
}

// Empty reports whether the predicate has no clauses.
func (p Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// String renders the predicate in the document-store where syntax.
func (p Predicate) String() string {
	parts := make([]string, 0, len(p.clauses))
	for _, c := range p.clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}

// Scoped renders the predicate with the tenant term as the outermost AND.
func (p Predicate) Scoped(seller string) string {
	scope := "seller=" + seller
	if p.Empty() {
		return scope
	}
	return fmt.Sprintf("%s AND (%s)", scope, p.String())
}

func (c clause) String() string {
	switch c.kind {
	case clauseContains:
		parts := make([]string, 0, len(c.fields))
		for _, f := range c.fields {
			parts = append(parts, fmt.Sprintf("%s='%s'", f.name, c.value))
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	default:
		if c.fields[0] == fieldID {
			return fmt.Sprintf("%s=%s", c.fields[0].name, c.value)
		}
		return fmt.Sprintf("(%s=%s)", c.fields[0].name, c.value)
	}
}

// Apply adds the predicate to a gorm query as parameterised conditions.
// Wildcards become LIKE patterns; literal % and _ in the term are escaped.
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	for _, c := range p.clauses {
		switch c.kind {
		case clauseContains:
			pattern := likePattern(c.value)
			conds := make([]string, 0, len(c.fields))
			args := make([]any, 0, len(c.fields))
			for _, f := range c.fields {
				conds = append(conds, f.column+` LIKE ? ESCAPE '\'`)
				args = append(args, pattern)
			}
			db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
		default:
			db = db.Where(c.fields[0].column+" = ?", c.value)
		}
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return strings.ReplaceAll(likeEscaper.Replace(term), wildcard, "%")
}

// Sort orders a search by one field.
type Sort struct {
	field      field
	descending bool
}

// SortCreationDateDesc is the default list ordering.
var SortCreationDateDesc = Sort{field: fieldCreationDate, descending: true}

// String renders the sort in the document-store syntax.
func (s Sort) String() string {
	if s.field.name == "" {
		return ""
	}
	if s.descending {
		return s.field.name + " DESC"
	}
	return s.field.name + " ASC"
}

func (s Sort) orderClause() string {
	if s.field.column == "" {
		return ""
	}
	if s.descending {
		return s.field.column + " DESC"
	}
	return s.field.column + " ASC"
}
