// Package rules is the rule-checker catalogue of spec.md §4.3: roughly
// twenty independent predicates over either the parsed Statement or the raw
// SQL text. Every checker is a no-op when its config disables it, never
// mutates its inputs, performs no I/O, and is deterministic in
// (sql, command_type, parsed, config).
package rules

import "github.com/sqlshield/sqlshield/internal/model"

// Checker is the capability every rule shares: a stable tag (used in
// messages and config keys) and whether it is currently active.
type Checker interface {
	Tag() string
	Enabled() bool
}

// AstChecker inspects the parsed Statement. The orchestrator never calls
// CheckAST when the statement's Kind is ast.KindUnknown (spec.md §4.3.i) —
// each checker dispatches internally on the variant it cares about and is
// a no-op for the others.
type AstChecker interface {
	Checker
	CheckAST(ctx *model.RuleContext, result *model.ValidationResult)
}

// RawTextChecker inspects ctx.SQL directly and runs unconditionally,
// including against Unknown statements.
type RawTextChecker interface {
	Checker
	CheckRaw(ctx *model.RuleContext, result *model.ValidationResult)
}
