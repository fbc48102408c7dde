package sqlshield

import (
	"strings"
	"time"

	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/sqlshield/sqlshield/internal/pattern"
	"github.com/sqlshield/sqlshield/internal/rules"
	"github.com/sqlshield/sqlshield/internal/sqlconfig"
)

// Validator holds everything frozen after construction: the parse façade
// (whose internal LRU is safe for concurrent use, spec.md §5), the ordered
// checker list, and the active strategy. It has no per-call mutable state
// of its own — that lives in a WorkerValidator — so a single *Validator is
// meant to be shared across every goroutine in the process.
type Validator struct {
	facade   *ast.Facade
	checkers []rules.Checker
	strategy Strategy
	logger   Logger

	dedupEnabled   bool
	dedupCacheSize int
	dedupTTL       time.Duration
}

// New builds a Validator from a resolved configuration. A nil resolved
// config builds spec.md's documented defaults (every rule enabled at its
// default risk, BLOCK strategy, dedup cache_size=1000/ttl_ms=100). Returns
// a *ConfigError at construction time for an out-of-range value (spec.md
// §7.4) rather than failing later on every call.
func New(resolved *sqlconfig.Resolved, logger Logger) (*Validator, error) {
	if resolved == nil {
		var fc sqlconfig.FileConfig
		resolved = fc.ToResolved()
	}
	if resolved.DedupCacheSize < 1 || resolved.DedupCacheSize > 100000 {
		return nil, &ConfigError{Field: "deduplication.cache_size", Reason: "must be between 1 and 100000"}
	}
	if resolved.DedupTTLMillis < 1 || resolved.DedupTTLMillis > 60000 {
		return nil, &ConfigError{Field: "deduplication.ttl_ms", Reason: "must be between 1 and 60000"}
	}

	matcher := pattern.New()
	checkers := rules.Build(resolved.Options, matcher)
	facade := ast.New(resolved.ParserCacheSize, resolved.ParserLenient)
	strategy := ParseStrategy(strings.TrimSpace(resolved.ActiveStrategy), StrategyBlock)
	if logger == nil {
		logger = NopLogger{}
	}

	return &Validator{
		facade:         facade,
		checkers:       checkers,
		strategy:       strategy,
		logger:         logger,
		dedupEnabled:   resolved.DeduplicationEnabled,
		dedupCacheSize: resolved.DedupCacheSize,
		dedupTTL:       time.Duration(resolved.DedupTTLMillis) * time.Millisecond,
	}, nil
}

// Strategy returns the validator's active strategy.
func (v *Validator) Strategy() Strategy { return v.strategy }
