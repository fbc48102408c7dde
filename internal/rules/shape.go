package rules

import (
	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/xwb1989/sqlparser"
)

// whereShape extracts the where-clause presence and expression of a
// SELECT, UPDATE or DELETE — the common shape several of the integrity
// checkers need regardless of which statement variant they're looking at.
type whereShape struct {
	applicable bool // false for variants this checker family doesn't apply to
	hasWhere   bool
	expr       sqlparser.Expr
}

func whereOf(s *ast.Statement) whereShape {
	if s == nil {
		return whereShape{}
	}
	switch s.Kind {
	case ast.KindSelect:
		if s.Select == nil {
			return whereShape{}
		}
		return whereShape{applicable: true, hasWhere: s.Select.HasWhere, expr: s.Select.WhereExpr}
	case ast.KindUpdate:
		if s.Update == nil {
			return whereShape{}
		}
		return whereShape{applicable: true, hasWhere: s.Update.HasWhere, expr: s.Update.WhereExpr}
	case ast.KindDelete:
		if s.Delete == nil {
			return whereShape{}
		}
		return whereShape{applicable: true, hasWhere: s.Delete.HasWhere, expr: s.Delete.WhereExpr}
	default:
		return whereShape{}
	}
}

func targetTableOf(s *ast.Statement) (string, bool) {
	if s == nil {
		return "", false
	}
	return ast.TargetTable(s)
}
