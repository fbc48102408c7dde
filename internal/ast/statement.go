// Package ast is the parse façade: it turns raw SQL text into a small,
// bounded set of tagged statement variants that the rule checkers can
// pattern-match on without ever importing the underlying parser package
// themselves.
package ast

import (
	"strings"

	"github.com/xwb1989/sqlparser"
)

// Kind tags which variant a Statement carries.
type Kind int

const (
	KindUnknown Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
	KindDDL
	KindExecute
)

// DDLOperation narrows KindDDL statements the way spec.md's
// Ddl(CreateTable|CreateIndex|CreateView|Alter|Drop|Truncate) variant does.
type DDLOperation int

const (
	DDLOther DDLOperation = iota
	DDLCreateTable
	DDLCreateIndex
	DDLCreateView
	DDLAlter
	DDLDrop
	DDLTruncate
)

// Statement is the façade's output: a tagged variant over the subset of the
// underlying AST that the rule checkers need. Once constructed, a Statement
// is treated as immutable by every consumer, so cached instances can be
// shared freely across calls.
type Statement struct {
	Kind Kind
	// RawSQL is always populated, including for KindUnknown, so that
	// raw-text checkers have something to work with regardless of whether
	// parsing succeeded.
	RawSQL string

	// DDLOp narrows KindDDL; zero value (DDLOther) otherwise.
	DDLOp DDLOperation
	// DDLKeyword is the literal action keyword (e.g. "alter", "drop"),
	// used in violation messages.
	DDLKeyword string

	// Select carries the parsed shape for KindSelect (including the left
	// side of a UNION chain; SetOps holds the rest of the chain).
	Select *SelectShape
	// SetOps lists every right-hand branch of a UNION/INTERSECT/EXCEPT
	// chain, in order, when Kind == KindSelect and the statement has one.
	SetOps []SetOperation

	// Update/Delete/Insert carry the minimum shape checkers need.
	Update *MutationShape
	Delete *MutationShape
	Insert *MutationShape

	// root is the original parsed node, kept so package-private helpers
	// (table/function extraction) can walk it without re-parsing.
	root sqlparser.Statement
}

// SetOperation describes one link of a UNION/INTERSECT/EXCEPT/MINUS chain.
type SetOperation struct {
	// Operator is one of "union", "union all", "intersect", "except", "minus".
	Operator string
}

// SelectShape is the minimum a SELECT exposes to rule checkers.
type SelectShape struct {
	HasWhere    bool
	WhereExpr   sqlparser.Expr
	HasLimit    bool
	HasOffset   bool
	Offset      int64
	Limit       int64
	HasOrderBy  bool
	IsAggregate bool // GROUP BY present, or a select-list that is purely aggregate funcs
	SelectExprs sqlparser.SelectExprs
	From        sqlparser.TableExprs
	node        *sqlparser.Select
}

// MutationShape is the minimum an INSERT/UPDATE/DELETE exposes.
type MutationShape struct {
	TargetTable string // unqualified, undelimited target table name
	HasWhere    bool
	WhereExpr   sqlparser.Expr
}

// Root exposes the underlying parser node. The table and function helpers
// in this package walk the root field directly; other packages use the
// Statement fields above.
func (s *Statement) Root() sqlparser.Statement { return s.root }

// fromSelectStatement builds a Statement for a Select/Union/ParenSelect,
// unwrapping ParenSelect and flattening the UNION chain into SetOps.
func fromSelectStatement(stmt sqlparser.SelectStatement, raw string) *Statement {
	switch n := stmt.(type) {
	case *sqlparser.Select:
		return &Statement{
			Kind:   KindSelect,
			RawSQL: raw,
			Select: newSelectShape(n),
			root:   n,
		}
	case *sqlparser.ParenSelect:
		return fromSelectStatement(n.Select, raw)
	case *sqlparser.Union:
		left := fromSelectStatement(n.Left, raw)
		if left.Kind != KindSelect {
			// Left side did not resolve to a SELECT; record this operator
			// without descending into the right side.
			left.SetOps = append(left.SetOps, SetOperation{Operator: strings.ToLower(n.Type)})
			return left
		}
		left.SetOps = append(left.SetOps, SetOperation{Operator: strings.ToLower(n.Type)})
		right := fromSelectStatement(n.Right, raw)
		left.SetOps = append(left.SetOps, right.SetOps...)
		return left
	default:
		return &Statement{Kind: KindUnknown, RawSQL: raw}
	}
}

func newSelectShape(sel *sqlparser.Select) *SelectShape {
	shape := &SelectShape{
		SelectExprs: sel.SelectExprs,
		From:        sel.From,
		node:        sel,
	}
	if sel.Where != nil {
		shape.HasWhere = true
		shape.WhereExpr = sel.Where.Expr
	}
	if sel.Limit != nil {
		shape.HasLimit = true
		if v, ok := intLiteral(sel.Limit.Rowcount); ok {
			shape.Limit = v
		}
		if sel.Limit.Offset != nil {
			shape.HasOffset = true
			if v, ok := intLiteral(sel.Limit.Offset); ok {
				shape.Offset = v
			}
		}
	}
	shape.HasOrderBy = len(sel.OrderBy) > 0
	shape.IsAggregate = len(sel.GroupBy) > 0 || selectListIsAggregateOnly(sel.SelectExprs)
	return shape
}

// intLiteral reads an integer literal limit/offset value; returns false for
// bind variables or other non-literal expressions (e.g. "LIMIT ?").
func intLiteral(e sqlparser.Expr) (int64, bool) {
	lit, ok := e.(*sqlparser.SQLVal)
	if !ok || lit.Type != sqlparser.IntVal {
		return 0, false
	}
	var n int64
	for _, c := range lit.Val {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}

// selectListIsAggregateOnly reports whether every non-star select item is
// an aggregate function call, used to exempt aggregate SELECTs from
// NoWhereClause the way spec.md §4.3(a) describes.
func selectListIsAggregateOnly(exprs sqlparser.SelectExprs) bool {
	if len(exprs) == 0 {
		return false
	}
	found := false
	for _, e := range exprs {
		aliased, ok := e.(*sqlparser.AliasedExpr)
		if !ok {
			return false
		}
		fn, ok := aliased.Expr.(*sqlparser.FuncExpr)
		if !ok || !fn.IsAggregate() {
			return false
		}
		found = true
	}
	return found
}

func mutationShape(target sqlparser.TableName, where *sqlparser.Where) *MutationShape {
	m := &MutationShape{TargetTable: StripIdentifier(target.Name.String())}
	if where != nil {
		m.HasWhere = true
		m.WhereExpr = where.Expr
	}
	return m
}

// FromParsed builds a Statement façade from a successfully parsed
// sqlparser.Statement.
func FromParsed(stmt sqlparser.Statement, raw string) *Statement {
	switch n := stmt.(type) {
	case *sqlparser.Select:
		return fromSelectStatement(n, raw)
	case *sqlparser.ParenSelect:
		s := fromSelectStatement(n, raw)
		s.root = n
		return s
	case *sqlparser.Union:
		s := fromSelectStatement(n, raw)
		s.root = n
		return s
	case *sqlparser.Insert:
		target := &MutationShape{TargetTable: StripIdentifier(n.Table.Name.String())}
		return &Statement{Kind: KindInsert, RawSQL: raw, Insert: target, root: n}
	case *sqlparser.Update:
		tbl := firstUpdateTable(n)
		return &Statement{Kind: KindUpdate, RawSQL: raw, Update: mutationShape(tbl, n.Where), root: n}
	case *sqlparser.Delete:
		tbl := firstDeleteTable(n)
		return &Statement{Kind: KindDelete, RawSQL: raw, Delete: mutationShape(tbl, n.Where), root: n}
	case *sqlparser.DDL:
		return &Statement{
			Kind:       KindDDL,
			RawSQL:     raw,
			DDLOp:      classifyDDL(n.Action),
			DDLKeyword: n.Action,
			root:       n,
		}
	default:
		// Show, Set, OtherRead, OtherAdmin, Use, DBDDL and anything else the
		// core doesn't need AST-level shape for: the raw-text checkers
		// (MetadataStatement, SetStatement, CallStatement) classify these
		// from the leading keyword instead.
		return &Statement{Kind: KindExecute, RawSQL: raw, root: stmt}
	}
}

func firstUpdateTable(n *sqlparser.Update) sqlparser.TableName {
	for _, t := range n.TableExprs {
		if aliased, ok := t.(*sqlparser.AliasedTableExpr); ok {
			if tn, ok := aliased.Expr.(sqlparser.TableName); ok {
				return tn
			}
		}
	}
	return sqlparser.TableName{}
}

func firstDeleteTable(n *sqlparser.Delete) sqlparser.TableName {
	if len(n.Targets) > 0 {
		return n.Targets[0]
	}
	for _, t := range n.TableExprs {
		if aliased, ok := t.(*sqlparser.AliasedTableExpr); ok {
			if tn, ok := aliased.Expr.(sqlparser.TableName); ok {
				return tn
			}
		}
	}
	return sqlparser.TableName{}
}

func classifyDDL(action string) DDLOperation {
	switch strings.ToLower(action) {
	case "create":
		return DDLCreateTable
	case "alter":
		return DDLAlter
	case "drop":
		return DDLDrop
	case "truncate":
		return DDLTruncate
	default:
		return DDLOther
	}
}

// StripIdentifier strips one matching pair of outer delimiters (backtick,
// double quote, bracket) and any schema prefix from a raw identifier, per
// spec.md §4.8.
func StripIdentifier(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		switch {
		case first == '`' && last == '`':
			name = name[1 : len(name)-1]
		case first == '"' && last == '"':
			name = name[1 : len(name)-1]
		case first == '[' && last == ']':
			name = name[1 : len(name)-1]
		}
	}
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}
