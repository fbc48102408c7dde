// Package orchestrator fans a single parsed statement out to every enabled
// rule checker and aggregates their violations into one ValidationResult
// (spec.md §4.4).
package orchestrator

import (
	"fmt"

	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/sqlshield/sqlshield/internal/rules"
)

// Logger is the minimal sink the orchestrator reports a contained checker
// panic through. nil is valid and silent.
type Logger interface {
	Warn(message string, fields map[string]any)
}

// Run invokes every enabled checker in checkers, in order, against ctx, and
// returns the aggregated result. An AstChecker is skipped entirely when
// ctx.Parsed is nil or Unknown (spec.md §4.3.i); a RawTextChecker always
// runs. A checker that panics is contained and logged; the remaining
// checkers still run (spec.md §7).
func Run(checkers []rules.Checker, ctx *model.RuleContext, log Logger) *model.ValidationResult {
	result := &model.ValidationResult{}
	unknown := ctx.Parsed == nil || ctx.Parsed.Kind == ast.KindUnknown

	for _, checker := range checkers {
		if !checker.Enabled() {
			continue
		}
		invoke(checker, ctx, result, unknown, log)
	}
	return result
}

func invoke(checker rules.Checker, ctx *model.RuleContext, result *model.ValidationResult, unknown bool, log Logger) {
	defer func() {
		if r := recover(); r != nil && log != nil {
			log.Warn("rule checker panicked; continuing without it", map[string]any{
				"rule":  checker.Tag(),
				"panic": fmt.Sprintf("%v", r),
			})
		}
	}()

	switch c := checker.(type) {
	case rules.AstChecker:
		if unknown {
			return
		}
		c.CheckAST(ctx, result)
	case rules.RawTextChecker:
		c.CheckRaw(ctx, result)
	}
}
