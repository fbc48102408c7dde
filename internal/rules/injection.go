package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/sqlshield/sqlshield/internal/pattern"
	"github.com/sqlshield/sqlshield/internal/rawtext"
)

// --- MultiStatement --------------------------------------------------------

// MultiStatementConfig configures MultiStatement.
type MultiStatementConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

// MultiStatement flags a raw SQL string carrying more than one statement:
// an unquoted semicolon with non-trailing content after it (spec.md
// §4.3(c)).
type MultiStatement struct {
	cfg MultiStatementConfig
}

func NewMultiStatement(cfg MultiStatementConfig) *MultiStatement { return &MultiStatement{cfg: cfg} }

func (c *MultiStatement) Tag() string   { return "MultiStatement" }
func (c *MultiStatement) Enabled() bool { return c.cfg.Enabled }

func (c *MultiStatement) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	runes := []rune(ctx.SQL)
	for _, i := range rawtext.UnquotedSemicolons(ctx.SQL) {
		if i+1 >= len(runes) {
			continue
		}
		if !rawtext.EffectivelyEmpty(string(runes[i+1:])) {
			result.AddViolation(c.cfg.Risk, c.Tag(),
				"statement contains more than one SQL statement separated by a semicolon",
				"submit one statement per call; use batched parameters instead of string concatenation")
			return
		}
	}
}

// --- SetOperation ----------------------------------------------------------

// SetOperationConfig configures SetOperation.
type SetOperationConfig struct {
	Enabled bool
	Risk    model.RiskLevel
	Allowed []string // lowercase operator names, e.g. "union all"
}

// SetOperation flags UNION/INTERSECT/EXCEPT/MINUS chains not on an
// allowlist (spec.md §4.3(c)).
type SetOperation struct {
	cfg     SetOperationConfig
	allowed map[string]bool
}

func NewSetOperation(cfg SetOperationConfig) *SetOperation {
	allowed := make(map[string]bool, len(cfg.Allowed))
	for _, a := range cfg.Allowed {
		allowed[strings.ToLower(a)] = true
	}
	return &SetOperation{cfg: cfg, allowed: allowed}
}

func (c *SetOperation) Tag() string   { return "SetOperation" }
func (c *SetOperation) Enabled() bool { return c.cfg.Enabled }

func (c *SetOperation) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	if ctx.Parsed.Kind != ast.KindSelect {
		return
	}
	for _, op := range ctx.Parsed.SetOps {
		if c.allowed[op.Operator] {
			continue
		}
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("statement uses a %s set operation", strings.ToUpper(op.Operator)),
			"split into separate queries or add this operation to the allowlist if it is expected")
	}
}

// --- SqlComment --------------------------------------------------------

// SqlCommentConfig configures SqlComment.
type SqlCommentConfig struct {
	Enabled           bool
	Risk              model.RiskLevel
	AllowHintComments bool // permit Oracle-style /*+ ... */ optimizer hints
}

// SqlComment flags `--`, `#`, and `/* */` comments outside string literals
// (spec.md §4.3(c)). MyBatis placeholders (`#{...}`, `${...}`) are not
// comments and are never reported.
type SqlComment struct {
	cfg SqlCommentConfig
}

func NewSqlComment(cfg SqlCommentConfig) *SqlComment { return &SqlComment{cfg: cfg} }

func (c *SqlComment) Tag() string   { return "SqlComment" }
func (c *SqlComment) Enabled() bool { return c.cfg.Enabled }

func (c *SqlComment) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	for _, span := range rawtext.FindComments(ctx.SQL) {
		if span.Kind == "/*+ */" && c.cfg.AllowHintComments {
			continue
		}
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("statement contains a SQL comment (%s)", span.Kind),
			"remove embedded comments from executed SQL")
	}
}

// --- IntoOutfile ---------------------------------------------------------

// IntoOutfileConfig configures IntoOutfile.
type IntoOutfileConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

var intoOutfilePattern = regexp.MustCompile(`(?i)\bINTO\s+(OUTFILE|DUMPFILE)\b`)

// IntoOutfile flags file-write syntax outside string literals (spec.md
// §4.3(c)). Oracle's `SELECT ... INTO <var>` has no OUTFILE/DUMPFILE
// keyword and does not match.
type IntoOutfile struct {
	cfg IntoOutfileConfig
}

func NewIntoOutfile(cfg IntoOutfileConfig) *IntoOutfile { return &IntoOutfile{cfg: cfg} }

func (c *IntoOutfile) Tag() string   { return "IntoOutfile" }
func (c *IntoOutfile) Enabled() bool { return c.cfg.Enabled }

func (c *IntoOutfile) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	stripped := rawtext.StripLiterals(ctx.SQL)
	if m := intoOutfilePattern.FindString(stripped); m != "" {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("statement writes query results to a file (%s)", strings.ToUpper(strings.Join(strings.Fields(m), " "))),
			"remove the file-write clause; return results to the caller instead")
	}
}

// --- DdlOperation --------------------------------------------------------

// DdlOperationConfig configures DdlOperation.
type DdlOperationConfig struct {
	Enabled          bool
	Risk             model.RiskLevel
	AllowedOperations []string // lowercase DDL keywords, e.g. "create"
}

// DdlOperation flags any DDL statement variant not in an allowlist
// (spec.md §4.3(c)).
type DdlOperation struct {
	cfg     DdlOperationConfig
	allowed map[string]bool
}

func NewDdlOperation(cfg DdlOperationConfig) *DdlOperation {
	allowed := make(map[string]bool, len(cfg.AllowedOperations))
	for _, a := range cfg.AllowedOperations {
		allowed[strings.ToLower(a)] = true
	}
	return &DdlOperation{cfg: cfg, allowed: allowed}
}

func (c *DdlOperation) Tag() string   { return "DdlOperation" }
func (c *DdlOperation) Enabled() bool { return c.cfg.Enabled }

func (c *DdlOperation) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	s := ctx.Parsed
	if s.Kind != ast.KindDDL {
		return
	}
	if c.allowed[strings.ToLower(s.DDLKeyword)] {
		return
	}
	result.AddViolation(c.cfg.Risk, c.Tag(),
		fmt.Sprintf("DDL operation %q is not on the allowed operations list", s.DDLKeyword),
		"run DDL through a migration tool instead of the hot path, or allowlist it explicitly")
}

// --- DangerousFunction -----------------------------------------------------

// DangerousFunctionConfig configures DangerousFunction.
type DangerousFunctionConfig struct {
	Enabled   bool
	Risk      model.RiskLevel
	Functions []string // lowercase function names
}

// DefaultDangerousFunctions mirrors spec.md §4.3(c)'s default set.
var DefaultDangerousFunctions = []string{
	"load_file", "sys_exec", "sys_eval", "sleep", "benchmark",
	"pg_sleep", "waitfor", "xp_cmdshell", "dbms_pipe", "into_outfile",
}

// DangerousFunction recursively walks the expression tree for calls to a
// configured set of dangerous functions (spec.md §4.3(c)).
type DangerousFunction struct {
	cfg DangerousFunctionConfig
	set map[string]bool
}

func NewDangerousFunction(cfg DangerousFunctionConfig) *DangerousFunction {
	if len(cfg.Functions) == 0 {
		cfg.Functions = DefaultDangerousFunctions
	}
	set := make(map[string]bool, len(cfg.Functions))
	for _, f := range cfg.Functions {
		set[strings.ToLower(f)] = true
	}
	return &DangerousFunction{cfg: cfg, set: set}
}

func (c *DangerousFunction) Tag() string   { return "DangerousFunction" }
func (c *DangerousFunction) Enabled() bool { return c.cfg.Enabled }

func (c *DangerousFunction) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	ast.DangerousFunctionWalk(ctx.Parsed, func(name string) {
		if !c.set[name] {
			return
		}
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("statement calls dangerous function %s()", name),
			"remove the call or move it out of application-submitted SQL")
	})
}

// --- CallStatement -------------------------------------------------------

// CallStatementConfig configures CallStatement.
type CallStatementConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

var callLeadingKeywords = map[string]bool{"CALL": true, "EXEC": true, "EXECUTE": true}

// CallStatement flags a stored-procedure call statement at the start of
// the SQL text (spec.md §4.3(c)); function calls inside SELECT expressions
// are a different leading keyword and never match. Unlike the five raw-text
// checkers spec.md names as Unknown-safe, CallStatement only fires on a
// statement that actually parsed, so it skips Unknown/unparsed input itself.
type CallStatement struct {
	cfg CallStatementConfig
}

func NewCallStatement(cfg CallStatementConfig) *CallStatement { return &CallStatement{cfg: cfg} }

func (c *CallStatement) Tag() string   { return "CallStatement" }
func (c *CallStatement) Enabled() bool { return c.cfg.Enabled }

func (c *CallStatement) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	if ctx.Parsed == nil || ctx.Parsed.Kind == ast.KindUnknown {
		return
	}
	kw := rawtext.LeadingKeyword(ctx.SQL)
	if !callLeadingKeywords[kw] {
		return
	}
	result.AddViolation(c.cfg.Risk, c.Tag(),
		fmt.Sprintf("statement is a %s stored-procedure call", kw),
		"route procedure calls through an explicit, reviewed integration point")
}

// --- MetadataStatement -----------------------------------------------------

// MetadataStatementConfig configures MetadataStatement.
type MetadataStatementConfig struct {
	Enabled           bool
	Risk              model.RiskLevel
	AllowedStatements []string // e.g. "show", "describe", "desc", "use"
}

var metadataLeadingKeywords = map[string]bool{"SHOW": true, "DESCRIBE": true, "DESC": true, "USE": true}

// MetadataStatement flags SHOW/DESCRIBE/DESC/USE statements not on an
// allowlist (spec.md §4.3(c)). A SELECT against information_schema is a
// different leading keyword and never matches.
type MetadataStatement struct {
	cfg     MetadataStatementConfig
	allowed map[string]bool
}

func NewMetadataStatement(cfg MetadataStatementConfig) *MetadataStatement {
	allowed := make(map[string]bool, len(cfg.AllowedStatements))
	for _, a := range cfg.AllowedStatements {
		allowed[strings.ToUpper(a)] = true
	}
	return &MetadataStatement{cfg: cfg, allowed: allowed}
}

func (c *MetadataStatement) Tag() string   { return "MetadataStatement" }
func (c *MetadataStatement) Enabled() bool { return c.cfg.Enabled }

func (c *MetadataStatement) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	kw := rawtext.LeadingKeyword(ctx.SQL)
	if !metadataLeadingKeywords[kw] || c.allowed[kw] {
		return
	}
	result.AddViolation(c.cfg.Risk, c.Tag(),
		fmt.Sprintf("statement is a %s metadata command", kw),
		"allowlist this metadata command if it is expected, or remove it from the hot path")
}

// --- SetStatement --------------------------------------------------------

// SetStatementConfig configures SetStatement.
type SetStatementConfig struct {
	Enabled bool
	Risk    model.RiskLevel
}

var setVariablePattern = regexp.MustCompile(`(?i)^\s*SET\s+(\S+)`)

// SetStatement flags a leading SET that sets a session/global variable,
// as opposed to an UPDATE ... SET column assignment (spec.md §4.3(c)).
type SetStatement struct {
	cfg SetStatementConfig
}

func NewSetStatement(cfg SetStatementConfig) *SetStatement { return &SetStatement{cfg: cfg} }

func (c *SetStatement) Tag() string   { return "SetStatement" }
func (c *SetStatement) Enabled() bool { return c.cfg.Enabled }

func (c *SetStatement) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	if rawtext.LeadingKeyword(ctx.SQL) != "SET" {
		return
	}
	variable := ""
	if m := setVariablePattern.FindStringSubmatch(ctx.SQL); len(m) == 2 {
		variable = m[1]
	}
	msg := "statement sets a session or global variable"
	if variable != "" {
		msg = fmt.Sprintf("statement sets session/global variable %s", variable)
	}
	result.AddViolation(c.cfg.Risk, c.Tag(), msg,
		"set session variables through the connection configuration, not submitted SQL")
}

// --- DeniedTable -----------------------------------------------------------

// DeniedTableConfig configures DeniedTable.
type DeniedTableConfig struct {
	Enabled  bool
	Risk     model.RiskLevel
	Patterns []string
}

// DeniedTable flags every table reference matching a configured wildcard
// pattern (spec.md §4.3(c), §4.8).
type DeniedTable struct {
	cfg     DeniedTableConfig
	matcher *pattern.Matcher
}

func NewDeniedTable(cfg DeniedTableConfig, matcher *pattern.Matcher) *DeniedTable {
	return &DeniedTable{cfg: cfg, matcher: matcher}
}

func (c *DeniedTable) Tag() string   { return "DeniedTable" }
func (c *DeniedTable) Enabled() bool { return c.cfg.Enabled }

func (c *DeniedTable) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	if len(c.cfg.Patterns) == 0 {
		return
	}
	for _, ref := range ast.Tables(ctx.Parsed) {
		if p, ok := c.matcher.MatchAny(ref.Name, c.cfg.Patterns); ok {
			result.AddViolation(c.cfg.Risk, c.Tag(),
				fmt.Sprintf("statement references denied table %q (matched pattern %q)", ref.Name, p),
				"remove the reference, or narrow the denylist pattern if this table should be allowed")
		}
	}
}

// --- ReadOnlyTable -----------------------------------------------------

// ReadOnlyTableConfig configures ReadOnlyTable.
type ReadOnlyTableConfig struct {
	Enabled  bool
	Risk     model.RiskLevel
	Patterns []string
}

// ReadOnlyTable flags INSERT/UPDATE/DELETE against a target table matching
// a configured read-only pattern; SELECT is always allowed (spec.md
// §4.3(c), §4.8).
type ReadOnlyTable struct {
	cfg     ReadOnlyTableConfig
	matcher *pattern.Matcher
}

func NewReadOnlyTable(cfg ReadOnlyTableConfig, matcher *pattern.Matcher) *ReadOnlyTable {
	return &ReadOnlyTable{cfg: cfg, matcher: matcher}
}

func (c *ReadOnlyTable) Tag() string   { return "ReadOnlyTable" }
func (c *ReadOnlyTable) Enabled() bool { return c.cfg.Enabled }

func (c *ReadOnlyTable) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	if len(c.cfg.Patterns) == 0 {
		return
	}
	s := ctx.Parsed
	if s.Kind != ast.KindInsert && s.Kind != ast.KindUpdate && s.Kind != ast.KindDelete {
		return
	}
	table, ok := targetTableOf(s)
	if !ok {
		return
	}
	if p, matched := c.matcher.MatchAny(table, c.cfg.Patterns); matched {
		result.AddViolation(c.cfg.Risk, c.Tag(),
			fmt.Sprintf("%s against read-only table %q (matched pattern %q)", s.Kind.String(), table, p),
			"route writes to this table through its owning service instead")
	}
}
