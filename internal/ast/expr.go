package ast

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Conjuncts flattens a chain of top-level ANDs into its individual
// predicates. A non-AND expression is returned as a single-element slice.
// Used by DummyCondition to find a tautological conjunct buried inside a
// larger predicate (spec.md §4.3(a): "status='active' AND 1=1").
func Conjuncts(e sqlparser.Expr) []sqlparser.Expr {
	if e == nil {
		return nil
	}
	if and, ok := e.(*sqlparser.AndExpr); ok {
		return append(Conjuncts(and.Left), Conjuncts(and.Right)...)
	}
	return []sqlparser.Expr{e}
}

// RenderExpr renders an expression to lowercase, whitespace-stripped SQL
// text, the form tautology patterns are matched against.
func RenderExpr(e sqlparser.Expr) string {
	if e == nil {
		return ""
	}
	s := strings.ToLower(sqlparser.String(e))
	return strings.Join(strings.Fields(s), "")
}

// ColumnNames returns the lowercased, unqualified names of every column
// reference reachable from e, in tree order, duplicates included.
func ColumnNames(e sqlparser.Expr) []string {
	if e == nil {
		return nil
	}
	var names []string
	_ = sqlparser.Walk(func(n sqlparser.SQLNode) (bool, error) {
		if col, ok := n.(*sqlparser.ColName); ok {
			names = append(names, strings.ToLower(col.Name.String()))
		}
		return true, nil
	}, e)
	return names
}
