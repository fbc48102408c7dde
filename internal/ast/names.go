package ast

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// TableRef is one resolved table reference.
type TableRef struct {
	// Name is stripped of delimiters and schema prefix (spec.md §4.8).
	Name string
	// Raw is the identifier exactly as it appeared (qualifier.name, with
	// any original delimiters), kept for diagnostics.
	Raw string
}

// Tables walks the statement's FROM clauses (including JOINs and
// subqueries) and returns every table reference it finds. Subquery tables
// are included, matching spec.md's "tables (including from joins,
// subqueries, and CTEs)" — CTEs are not reachable because the vendored
// parser predates WITH-clause support; see DESIGN.md.
func Tables(s *Statement) []TableRef {
	if s == nil || s.root == nil {
		return nil
	}
	var refs []TableRef
	seen := map[string]bool{}
	add := func(tn sqlparser.TableName) {
		raw := tn.Name.String()
		if q := tn.Qualifier.String(); q != "" {
			raw = q + "." + raw
		}
		name := StripIdentifier(raw)
		key := strings.ToLower(raw)
		if seen[key] {
			return
		}
		seen[key] = true
		refs = append(refs, TableRef{Name: name, Raw: raw})
	}

	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		if tn, ok := node.(sqlparser.TableName); ok && !tn.IsEmpty() {
			add(tn)
		}
		return true, nil
	}, s.root)

	return refs
}

// TargetTable returns the single table an INSERT/UPDATE/DELETE writes to,
// excluding any tables referenced only in a WHERE clause or subquery
// (spec.md's ReadOnlyTable checker compares against this, not Tables()).
func TargetTable(s *Statement) (string, bool) {
	switch s.Kind {
	case KindInsert:
		if s.Insert != nil {
			return s.Insert.TargetTable, true
		}
	case KindUpdate:
		if s.Update != nil {
			return s.Update.TargetTable, true
		}
	case KindDelete:
		if s.Delete != nil {
			return s.Delete.TargetTable, true
		}
	}
	return "", false
}

// DangerousFunctionWalk calls visit(lowercasedFuncName) for every function
// call reachable from the statement's select items, where/having/order-by
// expressions and function arguments, descending into subqueries and CASE
// arms (the parser's generic Walk already recurses into both), using an
// identity-keyed visited set to avoid re-visiting shared subtrees
// (spec.md §4.3(c) DangerousFunction).
func DangerousFunctionWalk(s *Statement, visit func(name string)) {
	if s == nil || s.root == nil {
		return
	}
	visited := map[sqlparser.SQLNode]bool{}
	_ = sqlparser.Walk(func(n sqlparser.SQLNode) (bool, error) {
		fn, ok := n.(*sqlparser.FuncExpr)
		if !ok || visited[n] {
			return true, nil
		}
		visited[n] = true
		visit(strings.ToLower(fn.Name.String()))
		return true, nil
	}, s.root)
}
