package sqlshield

import "github.com/sqlshield/sqlshield/internal/ast"

// SqlContext is the input to the core, owned by the caller and immutable
// once built (spec.md §3). Construct one with NewSqlContext; Parsed is
// populated internally by the parse façade and must never be set by
// callers.
type SqlContext struct {
	// SQL is the statement text, exactly as would be executed.
	SQL string
	// CommandType is caller-supplied or, if left as CommandUnknown, derived
	// from the AST (or the leading keyword, in lenient mode).
	CommandType SqlCommandType
	// StatementID is an opaque label identifying the call site, used only
	// for reporting (e.g. "UserMapper.selectById").
	StatementID string
	// Parameters is optional audit context; unused by the checkers
	// themselves.
	Parameters map[string]any
	// PhysicalPagination, when non-nil, answers the pagination checkers'
	// PaginationPluginDetector question for this call (spec.md §4.3(b),
	// §6): true means the host has a physical-pagination rewriter
	// installed. Adapters that don't support logical pagination at all may
	// leave this nil, which the pagination checkers treat as "no
	// rewriter", i.e. the same as false.
	PhysicalPagination *bool
	// LogicalPagination signals the host framework itself believes it is
	// doing pagination (the external signal LogicalPagination checker
	// triggers on; spec.md §4.3(b)).
	LogicalPagination bool

	parsed *ast.Statement
}

// NewSqlContext builds a SqlContext. sql must be non-empty; commandType may
// be CommandUnknown to let the validator derive it.
func NewSqlContext(sql string, commandType SqlCommandType, statementID string) SqlContext {
	return SqlContext{SQL: sql, CommandType: commandType, StatementID: statementID}
}

// effectiveCommandType returns ctx.CommandType if set, otherwise derives one
// from the parsed AST (when available) or the leading keyword.
func (ctx *SqlContext) effectiveCommandType() SqlCommandType {
	if ctx.CommandType != CommandUnknown {
		return ctx.CommandType
	}
	if ctx.parsed != nil {
		switch ctx.parsed.Kind {
		case ast.KindSelect:
			return CommandSelect
		case ast.KindInsert:
			return CommandInsert
		case ast.KindUpdate:
			return CommandUpdate
		case ast.KindDelete:
			return CommandDelete
		case ast.KindDDL:
			return CommandDDL
		}
	}
	return leadingKeywordCommandType(ctx.SQL)
}

// hasPhysicalPagination implements the PaginationPluginDetector contract
// (spec.md §6) for the pagination checkers.
func (ctx *SqlContext) hasPhysicalPagination() bool {
	return ctx.PhysicalPagination != nil && *ctx.PhysicalPagination
}
