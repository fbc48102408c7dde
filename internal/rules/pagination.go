package rules

import (
	"fmt"
	"strings"

	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/xwb1989/sqlparser"
)

// --- LogicalPagination -----------------------------------------------------

// LogicalPaginationConfig configures LogicalPagination.
type LogicalPaginationConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

// LogicalPagination flags a call where the host framework claims to
// paginate but has no physical-pagination rewriter installed (spec.md
// §4.3(b)); the two signals arrive via RuleContext, populated by the host
// adapter's PaginationPluginDetector implementation.
type LogicalPagination struct {
	cfg LogicalPaginationConfig
}

func NewLogicalPagination(cfg LogicalPaginationConfig) *LogicalPagination {
	return &LogicalPagination{cfg: cfg}
}

func (c *LogicalPagination) Tag() string   { return "LogicalPagination" }
func (c *LogicalPagination) Enabled() bool { return c.cfg.Enabled }

func (c *LogicalPagination) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	if ctx.Parsed.Kind != ast.KindSelect {
		return
	}
	if ctx.LogicalPagingClaim && !ctx.HasPhysicalPaging {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			"statement is paginated logically by the framework with no physical pagination rewriter installed",
			"install a physical pagination plugin, or rewrite the query with a real LIMIT/OFFSET")
	}
}

// --- NoConditionPagination -------------------------------------------------

// NoConditionPaginationConfig configures NoConditionPagination.
type NoConditionPaginationConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

// NoConditionPagination flags a LIMIT with no where predicate: still a full
// table scan that merely truncates the result (spec.md §4.3(b)).
type NoConditionPagination struct {
	cfg NoConditionPaginationConfig
}

func NewNoConditionPagination(cfg NoConditionPaginationConfig) *NoConditionPagination {
	return &NoConditionPagination{cfg: cfg}
}

func (c *NoConditionPagination) Tag() string   { return "NoConditionPagination" }
func (c *NoConditionPagination) Enabled() bool { return c.cfg.Enabled }

func (c *NoConditionPagination) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	if s.Kind != ast.KindSelect || s.Select == nil {
		return
	}
	if s.Select.HasLimit && !s.Select.HasWhere {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			"LIMIT clause present without a WHERE clause; this still performs a full scan",
			"add a WHERE clause to narrow the scan before paginating")
	}
}

// --- DeepPagination ----------------------------------------------------

// DeepPaginationConfig configures DeepPagination.
type DeepPaginationConfig struct {
	Enabled   bool
	Risk      model.RiskLevel
	MaxOffset int64
}

// DefaultMaxOffset mirrors spec.md §4.3(b)'s default.
const DefaultMaxOffset = 10000

// DeepPagination flags OFFSET past a configured bound (spec.md §4.3(b)).
type DeepPagination struct {
	cfg DeepPaginationConfig
}

func NewDeepPagination(cfg DeepPaginationConfig) *DeepPagination {
	if cfg.MaxOffset <= 0 {
		cfg.MaxOffset = DefaultMaxOffset
	}
	return &DeepPagination{cfg: cfg}
}

func (c *DeepPagination) Tag() string   { return "DeepPagination" }
func (c *DeepPagination) Enabled() bool { return c.cfg.Enabled }

func (c *DeepPagination) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	if s.Kind != ast.KindSelect || s.Select == nil || !s.Select.HasOffset {
		return
	}
	if s.Select.Offset > c.cfg.MaxOffset {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("OFFSET %d exceeds the configured maximum of %d", s.Select.Offset, c.cfg.MaxOffset),
			"use keyset pagination instead of a deep OFFSET")
	}
}

// --- LargePageSize -------------------------------------------------------

// LargePageSizeConfig configures LargePageSize.
type LargePageSizeConfig struct {
	Enabled     bool
	Risk        model.RiskLevel
	MaxPageSize int64
}

// DefaultMaxPageSize mirrors spec.md §4.3(b)'s default.
const DefaultMaxPageSize = 1000

// LargePageSize flags a LIMIT past a configured bound (spec.md §4.3(b)).
type LargePageSize struct {
	cfg LargePageSizeConfig
}

func NewLargePageSize(cfg LargePageSizeConfig) *LargePageSize {
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultMaxPageSize
	}
	return &LargePageSize{cfg: cfg}
}

func (c *LargePageSize) Tag() string   { return "LargePageSize" }
func (c *LargePageSize) Enabled() bool { return c.cfg.Enabled }

func (c *LargePageSize) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	if s.Kind != ast.KindSelect || s.Select == nil || !s.Select.HasLimit {
		return
	}
	if s.Select.Limit > c.cfg.MaxPageSize {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("LIMIT %d exceeds the configured maximum page size of %d", s.Select.Limit, c.cfg.MaxPageSize),
			"reduce the page size or split the request")
	}
}

// --- MissingOrderBy ------------------------------------------------------

// MissingOrderByConfig configures MissingOrderBy.
type MissingOrderByConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

// MissingOrderBy flags a paginated SELECT with no ORDER BY, which makes the
// pagination unstable across pages (spec.md §4.3(b)).
type MissingOrderBy struct {
	cfg MissingOrderByConfig
}

func NewMissingOrderBy(cfg MissingOrderByConfig) *MissingOrderBy { return &MissingOrderBy{cfg: cfg} }

func (c *MissingOrderBy) Tag() string   { return "MissingOrderBy" }
func (c *MissingOrderBy) Enabled() bool { return c.cfg.Enabled }

func (c *MissingOrderBy) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	if s.Kind != ast.KindSelect || s.Select == nil || !s.Select.HasLimit {
		return
	}
	if !s.Select.HasOrderBy {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			"paginated SELECT has no ORDER BY, so page contents are not stable across calls",
			"add an ORDER BY over a deterministic key")
	}
}

// --- NoPagination --------------------------------------------------------

// NoPaginationConfig configures NoPagination.
type NoPaginationConfig struct {
	Enabled         bool
	Risk            model.RiskLevel // base (MEDIUM) risk; escalated per spec.md §4.3(b)
	BlacklistFields []string
}

// NoPagination flags a SELECT with no LIMIT at all, risk-stratified by how
// well the WHERE clause narrows the scan (spec.md §4.3(b)).
type NoPagination struct {
	cfg NoPaginationConfig
	set map[string]bool
}

func NewNoPagination(cfg NoPaginationConfig) *NoPagination {
	if len(cfg.BlacklistFields) == 0 {
		cfg.BlacklistFields = DefaultBlacklistFields
	}
	set := make(map[string]bool, len(cfg.BlacklistFields))
	for _, f := range cfg.BlacklistFields {
		set[strings.ToLower(f)] = true
	}
	return &NoPagination{cfg: cfg, set: set}
}

func (c *NoPagination) Tag() string   { return "NoPagination" }
func (c *NoPagination) Enabled() bool { return c.cfg.Enabled }

func (c *NoPagination) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	if s.Kind != ast.KindSelect || s.Select == nil || s.Select.HasLimit {
		return
	}

	risk := c.cfg.Risk
	switch {
	case !s.Select.HasWhere:
		risk = model.RiskCritical
	case c.onlyBlacklistColumns(s.Select.WhereExpr):
		risk = model.RiskHigh
	}

	result.AddViolation(risk, c.Tag(),
		"SELECT statement has no LIMIT clause",
		"add a LIMIT clause to bound the result set")
}

func (c *NoPagination) onlyBlacklistColumns(expr sqlparser.Expr) bool {
	cols := ast.ColumnNames(expr)
	if len(cols) == 0 {
		return false
	}
	for _, col := range cols {
		if !c.set[col] {
			return false
		}
	}
	return true
}
