package rules

import (
	"fmt"
	"strings"

	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/sqlshield/sqlshield/internal/model"
)

// --- NoWhereClause -----------------------------------------------------

// NoWhereClauseConfig configures NoWhereClause.
type NoWhereClauseConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

// NoWhereClause flags UPDATE/DELETE, and non-aggregate non-paginated
// SELECT, with no where clause at all (spec.md §4.3(a)).
type NoWhereClause struct {
	cfg NoWhereClauseConfig
}

func NewNoWhereClause(cfg NoWhereClauseConfig) *NoWhereClause { return &NoWhereClause{cfg: cfg} }

func (c *NoWhereClause) Tag() string   { return "NoWhereClause" }
func (c *NoWhereClause) Enabled() bool { return c.cfg.Enabled }

func (c *NoWhereClause) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	switch s.Kind {
	case ast.KindUpdate, ast.KindDelete:
		w := whereOf(s)
		if w.applicable && !w.hasWhere {
			result.AddViolation(c.cfg.Risk, c.Tag(),
				fmt.Sprintf("%s statement has no WHERE clause", s.Kind.String()),
				"add a WHERE clause that narrows the affected rows")
		}
	case ast.KindSelect:
		if s.Select == nil || s.Select.HasWhere {
			return
		}
		if s.Select.IsAggregate || s.Select.HasLimit {
			return
		}
		result.AddViolation(c.cfg.Risk, c.Tag(),
			"SELECT statement has no WHERE clause and is not aggregate or paginated",
			"add a WHERE clause, or LIMIT the result set, or aggregate it")
	}
}

// --- DummyCondition ------------------------------------------------------

// DummyConditionConfig configures DummyCondition.
type DummyConditionConfig struct {
	Enabled  bool
	Risk     model.RiskLevel
	Patterns []string // normalized (lowercase, whitespace-stripped) tautology texts
}

// DefaultDummyConditionPatterns mirrors spec.md §4.3(a)'s default set.
var DefaultDummyConditionPatterns = []string{"1=1", "true", "'a'='a'", "1<>0"}

// DummyCondition flags a where predicate that is, or contains as a
// top-level AND conjunct, a configured tautology (spec.md §4.3(a)).
type DummyCondition struct {
	cfg DummyConditionConfig
}

func NewDummyCondition(cfg DummyConditionConfig) *DummyCondition {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultDummyConditionPatterns
	}
	return &DummyCondition{cfg: cfg}
}

func (c *DummyCondition) Tag() string   { return "DummyCondition" }
func (c *DummyCondition) Enabled() bool { return c.cfg.Enabled }

func (c *DummyCondition) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	w := whereOf(ctx.Parsed)
	if !w.applicable || !w.hasWhere || w.expr == nil {
		return
	}
	for _, conjunct := range ast.Conjuncts(w.expr) {
		rendered := ast.RenderExpr(conjunct)
		for _, p := range c.cfg.Patterns {
			if rendered == normalizePattern(p) {
				result.AddViolation(c.cfg.Risk, c.Tag(),
					fmt.Sprintf("WHERE clause contains a dummy condition matching %q", p),
					"remove the tautological condition or replace it with a real predicate")
				return
			}
		}
	}
}

func normalizePattern(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), "")
}

// --- BlacklistFields -----------------------------------------------------

// BlacklistFieldsConfig configures BlacklistFields.
type BlacklistFieldsConfig struct {
	Enabled bool
	Risk    model.RiskLevel
	Fields  []string // low-cardinality columns that alone never narrow enough
}

// DefaultBlacklistFields mirrors spec.md §4.3(a)'s example set.
var DefaultBlacklistFields = []string{"deleted", "status", "enabled"}

// BlacklistFields flags a where clause that references only low-cardinality
// blacklisted columns (spec.md §4.3(a)).
type BlacklistFields struct {
	cfg BlacklistFieldsConfig
	set map[string]bool
}

func NewBlacklistFields(cfg BlacklistFieldsConfig) *BlacklistFields {
	if len(cfg.Fields) == 0 {
		cfg.Fields = DefaultBlacklistFields
	}
	set := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		set[strings.ToLower(f)] = true
	}
	return &BlacklistFields{cfg: cfg, set: set}
}

func (c *BlacklistFields) Tag() string   { return "BlacklistFields" }
func (c *BlacklistFields) Enabled() bool { return c.cfg.Enabled }

func (c *BlacklistFields) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	w := whereOf(ctx.Parsed)
	if !w.applicable || !w.hasWhere || w.expr == nil {
		return
	}
	cols := ast.ColumnNames(w.expr)
	if len(cols) == 0 {
		return
	}
	for _, col := range cols {
		if !c.set[col] {
			return // at least one non-blacklist column: passes
		}
	}
	result.AddViolation(c.cfg.Risk, c.Tag(),
		fmt.Sprintf("WHERE clause references only low-cardinality columns: %s", strings.Join(cols, ", ")),
		"add a condition on a higher-cardinality column, e.g. a primary or foreign key")
}

// --- WhitelistFields -----------------------------------------------------

// WhitelistFieldsConfig configures WhitelistFields.
type WhitelistFieldsConfig struct {
	Enabled        bool
	Risk           model.RiskLevel
	TableRequired  map[string][]string // table -> required columns, any one of which must appear
}

// WhitelistFields flags a statement touching a configured table without any
// of that table's required where-clause fields present (spec.md §4.3(a)).
type WhitelistFields struct {
	cfg WhitelistFieldsConfig
}

func NewWhitelistFields(cfg WhitelistFieldsConfig) *WhitelistFields {
	return &WhitelistFields{cfg: cfg}
}

func (c *WhitelistFields) Tag() string   { return "WhitelistFields" }
func (c *WhitelistFields) Enabled() bool { return c.cfg.Enabled }

func (c *WhitelistFields) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	if len(c.cfg.TableRequired) == 0 {
		return
	}
	table, ok := targetTableOf(ctx.Parsed)
	if !ok {
		// SELECTs are also in scope per spec.md's "a statement touches a
		// whitelisted table"; read the first FROM table for that case.
		if ctx.Parsed.Kind == ast.KindSelect {
			refs := ast.Tables(ctx.Parsed)
			if len(refs) == 0 {
				return
			}
			table = refs[0].Name
			ok = true
		}
	}
	if !ok {
		return
	}
	required, configured := c.cfg.TableRequired[strings.ToLower(table)]
	if !configured || len(required) == 0 {
		return
	}
	w := whereOf(ctx.Parsed)
	present := map[string]bool{}
	if w.hasWhere && w.expr != nil {
		for _, col := range ast.ColumnNames(w.expr) {
			present[col] = true
		}
	}
	for _, req := range required {
		if present[strings.ToLower(req)] {
			return
		}
	}
	result.AddViolation(c.cfg.Risk, c.Tag(),
		fmt.Sprintf("statement touches table %q without any of its required fields (%s) in the WHERE clause", table, strings.Join(required, ", ")),
		"include at least one of the table's required identifying fields in the WHERE clause")
}
