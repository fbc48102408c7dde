package sqlshield

import (
	"strings"

	"github.com/sqlshield/sqlshield/internal/dedup"
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/sqlshield/sqlshield/internal/orchestrator"
)

// WorkerValidator is a *Validator's per-goroutine handle: the idiomatic Go
// stand-in for spec.md §4.5's "per-thread" deduplication cache. Construct
// one per goroutine that calls Validate (one per worker-pool worker, one
// per long-lived connection handler, ...) and never share it across
// goroutines — its cache is not synchronized, by design, to keep the hot
// path lock-free (spec.md §4.5, §5, §9).
type WorkerValidator struct {
	v     *Validator
	cache *dedup.Cache
}

// NewWorker builds a WorkerValidator bound to v. Safe to call from any
// goroutine; the returned value itself must then stay on one goroutine.
func (v *Validator) NewWorker() *WorkerValidator {
	var cache *dedup.Cache
	if v.dedupEnabled {
		cache = dedup.New(v.dedupCacheSize, v.dedupTTL)
	}
	return &WorkerValidator{v: v, cache: cache}
}

// Validate implements the entry-point contract of spec.md §4.6. It does
// not fail on a non-passing result — only on strict-mode parse failure
// (misconfiguration is rejected earlier, by New). Turning a
// non-passing result into an error is ValidateAndHandle's job, via the
// strategy layer.
func (w *WorkerValidator) Validate(ctx SqlContext) (*ValidationResult, error) {
	if strings.TrimSpace(ctx.SQL) == "" {
		return &ValidationResult{Risk: model.RiskSafe}, nil
	}

	if w.cache != nil {
		if cached, ok := w.cache.Probe(ctx.SQL); ok {
			return cached, nil
		}
	}

	parsed, err := w.v.facade.Parse(ctx.SQL)
	var result *ValidationResult
	if err != nil {
		// Strict mode: demote to a single violation per spec.md §4.6 step 3
		// rather than propagate bare — the caller still gets a cacheable
		// ValidationResult, and a *ParseError besides.
		result = &ValidationResult{}
		result.AddViolation(model.RiskCritical, "unparseable_sql", err.Error(),
			"fix the SQL syntax, or run the validator in lenient mode")
		if w.cache != nil {
			w.cache.Store(ctx.SQL, result)
		}
		return result, &ParseError{SQL: ctx.SQL, Cause: err}
	}
	ctx.parsed = parsed

	ruleCtx := &model.RuleContext{
		SQL:                ctx.SQL,
		CommandType:        ctx.effectiveCommandType(),
		Parsed:             parsed,
		StatementID:        ctx.StatementID,
		HasPhysicalPaging:  ctx.hasPhysicalPagination(),
		LogicalPagingClaim: ctx.LogicalPagination,
	}
	result = orchestrator.Run(w.v.checkers, ruleCtx, w.v.logger)

	if w.cache != nil {
		w.cache.Store(ctx.SQL, result)
	}
	return result, nil
}

// ValidateAndHandle runs Validate and then applies the validator's active
// strategy to the result (spec.md §4.7). A *SafetyViolation is returned
// under BLOCK when the result did not pass; a *ParseError is returned
// as-is in strict mode regardless of strategy.
func (w *WorkerValidator) ValidateAndHandle(ctx SqlContext) (*ValidationResult, error) {
	result, err := w.Validate(ctx)
	if err != nil {
		return result, err
	}
	if handleErr := w.v.strategy.Handle(result, ctx.StatementID, w.v.logger); handleErr != nil {
		return result, handleErr
	}
	return result, nil
}
