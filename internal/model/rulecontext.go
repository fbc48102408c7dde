package model

import "github.com/sqlshield/sqlshield/internal/ast"

// RuleContext is the per-call input threaded through the orchestrator to
// every checker. It carries exactly what a checker is allowed to see: the
// raw SQL (for raw-text checkers), the derived command type, the parsed
// statement (nil only if parsing hasn't happened — never nil by the time
// checkers run), and the two external pagination signals a host adapter
// may supply. Checkers must treat every field as read-only.
type RuleContext struct {
	SQL                string
	CommandType        SqlCommandType
	Parsed             *ast.Statement
	StatementID        string
	HasPhysicalPaging  bool
	LogicalPagingClaim bool
}
