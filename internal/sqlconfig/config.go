// Package sqlconfig loads the core's configuration document (spec.md §6)
// the way the teacher's internal/config package loads its own: YAML
// primary, JSON fallback, with file-friendly struct names that convert into
// the strongly-typed runtime options the rest of the core consumes.
package sqlconfig

import (
	"github.com/sqlshield/sqlshield/internal/dedup"
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/sqlshield/sqlshield/internal/rules"
)

// FileConfig is the structure of a sqlshield config file (spec.md §6's
// option table).
type FileConfig struct {
	Parser        FileParserConfig        `yaml:"parser" json:"parser"`
	Deduplication FileDeduplicationConfig  `yaml:"deduplication" json:"deduplication"`
	ActiveStrategy string                  `yaml:"active_strategy" json:"active_strategy"`
	Rules         FileRulesConfig          `yaml:"rules" json:"rules"`
}

// FileParserConfig controls the parse façade.
type FileParserConfig struct {
	Lenient   bool `yaml:"lenient" json:"lenient"`
	CacheSize int  `yaml:"cache_size" json:"cache_size"`
}

// FileDeduplicationConfig controls the per-worker dedup cache.
type FileDeduplicationConfig struct {
	Enabled   *bool `yaml:"enabled" json:"enabled"`
	CacheSize int   `yaml:"cache_size" json:"cache_size"`
	TTLMillis int   `yaml:"ttl_ms" json:"ttl_ms"`
}

// FileRuleConfig is the union of every per-rule parameter spec.md §4.3
// names; a given rule only reads the fields relevant to it.
type FileRuleConfig struct {
	Enabled *bool  `yaml:"enabled" json:"enabled"`
	Risk    string `yaml:"risk" json:"risk"`

	Patterns          []string            `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Fields            []string            `yaml:"fields,omitempty" json:"fields,omitempty"`
	TableRequired     map[string][]string `yaml:"table_required,omitempty" json:"table_required,omitempty"`
	MaxOffset         int64               `yaml:"max_offset,omitempty" json:"max_offset,omitempty"`
	MaxPageSize       int64               `yaml:"max_page_size,omitempty" json:"max_page_size,omitempty"`
	Allowed           []string            `yaml:"allowed,omitempty" json:"allowed,omitempty"`
	AllowHintComments *bool               `yaml:"allow_hint_comments,omitempty" json:"allow_hint_comments,omitempty"`
	AllowedOperations []string            `yaml:"allowed_operations,omitempty" json:"allowed_operations,omitempty"`
	Functions         []string            `yaml:"functions,omitempty" json:"functions,omitempty"`
	AllowedStatements []string            `yaml:"allowed_statements,omitempty" json:"allowed_statements,omitempty"`
}

// FileRulesConfig carries one FileRuleConfig per checker in the §4.3
// catalogue.
type FileRulesConfig struct {
	NoWhereClause   FileRuleConfig `yaml:"no_where_clause" json:"no_where_clause"`
	DummyCondition  FileRuleConfig `yaml:"dummy_condition" json:"dummy_condition"`
	BlacklistFields FileRuleConfig `yaml:"blacklist_fields" json:"blacklist_fields"`
	WhitelistFields FileRuleConfig `yaml:"whitelist_fields" json:"whitelist_fields"`

	LogicalPagination     FileRuleConfig `yaml:"logical_pagination" json:"logical_pagination"`
	NoConditionPagination FileRuleConfig `yaml:"no_condition_pagination" json:"no_condition_pagination"`
	DeepPagination        FileRuleConfig `yaml:"deep_pagination" json:"deep_pagination"`
	LargePageSize         FileRuleConfig `yaml:"large_page_size" json:"large_page_size"`
	MissingOrderBy        FileRuleConfig `yaml:"missing_order_by" json:"missing_order_by"`
	NoPagination          FileRuleConfig `yaml:"no_pagination" json:"no_pagination"`

	MultiStatement    FileRuleConfig `yaml:"multi_statement" json:"multi_statement"`
	SetOperation      FileRuleConfig `yaml:"set_operation" json:"set_operation"`
	SqlComment        FileRuleConfig `yaml:"sql_comment" json:"sql_comment"`
	IntoOutfile       FileRuleConfig `yaml:"into_outfile" json:"into_outfile"`
	DdlOperation      FileRuleConfig `yaml:"ddl_operation" json:"ddl_operation"`
	DangerousFunction FileRuleConfig `yaml:"dangerous_function" json:"dangerous_function"`
	CallStatement     FileRuleConfig `yaml:"call_statement" json:"call_statement"`
	MetadataStatement FileRuleConfig `yaml:"metadata_statement" json:"metadata_statement"`
	SetStatement      FileRuleConfig `yaml:"set_statement" json:"set_statement"`
	DeniedTable       FileRuleConfig `yaml:"denied_table" json:"denied_table"`
	ReadOnlyTable     FileRuleConfig `yaml:"read_only_table" json:"read_only_table"`
}

// Resolved is everything a Validator needs to build itself: the checker
// Options, plus the validator-level settings spec.md §6 lists alongside
// them.
type Resolved struct {
	ParserLenient       bool
	ParserCacheSize     int
	DeduplicationEnabled bool
	DedupCacheSize      int
	DedupTTLMillis      int
	ActiveStrategy      string
	Options             rules.Options
}

// apply overlays a FileRuleConfig onto a base rules config, returning the
// enabled flag and risk it resolved to (individual rule Options structs
// pull their own typed parameters out of cfg separately).
func apply(base bool, baseRisk model.RiskLevel, cfg FileRuleConfig) (bool, model.RiskLevel) {
	enabled := base
	if cfg.Enabled != nil {
		enabled = *cfg.Enabled
	}
	risk := baseRisk
	if cfg.Risk != "" {
		risk = model.ParseRiskLevel(cfg.Risk, baseRisk)
	}
	return enabled, risk
}

// ToResolved converts a parsed FileConfig into a Resolved, overlaying
// every set field onto spec.md's defaults. Unset fields (zero value in the
// file) keep the default.
func (fc *FileConfig) ToResolved() *Resolved {
	opts := rules.DefaultOptions()

	opts.NoWhereClause.Enabled, opts.NoWhereClause.Risk = apply(opts.NoWhereClause.Enabled, opts.NoWhereClause.Risk, fc.Rules.NoWhereClause)

	opts.DummyCondition.Enabled, opts.DummyCondition.Risk = apply(opts.DummyCondition.Enabled, opts.DummyCondition.Risk, fc.Rules.DummyCondition)
	if len(fc.Rules.DummyCondition.Patterns) > 0 {
		opts.DummyCondition.Patterns = fc.Rules.DummyCondition.Patterns
	}

	opts.BlacklistFields.Enabled, opts.BlacklistFields.Risk = apply(opts.BlacklistFields.Enabled, opts.BlacklistFields.Risk, fc.Rules.BlacklistFields)
	if len(fc.Rules.BlacklistFields.Fields) > 0 {
		opts.BlacklistFields.Fields = fc.Rules.BlacklistFields.Fields
	}

	opts.WhitelistFields.Enabled, opts.WhitelistFields.Risk = apply(opts.WhitelistFields.Enabled, opts.WhitelistFields.Risk, fc.Rules.WhitelistFields)
	if len(fc.Rules.WhitelistFields.TableRequired) > 0 {
		opts.WhitelistFields.TableRequired = fc.Rules.WhitelistFields.TableRequired
	}

	opts.LogicalPagination.Enabled, opts.LogicalPagination.Risk = apply(opts.LogicalPagination.Enabled, opts.LogicalPagination.Risk, fc.Rules.LogicalPagination)
	opts.NoConditionPagination.Enabled, opts.NoConditionPagination.Risk = apply(opts.NoConditionPagination.Enabled, opts.NoConditionPagination.Risk, fc.Rules.NoConditionPagination)

	opts.DeepPagination.Enabled, opts.DeepPagination.Risk = apply(opts.DeepPagination.Enabled, opts.DeepPagination.Risk, fc.Rules.DeepPagination)
	if fc.Rules.DeepPagination.MaxOffset > 0 {
		opts.DeepPagination.MaxOffset = fc.Rules.DeepPagination.MaxOffset
	}

	opts.LargePageSize.Enabled, opts.LargePageSize.Risk = apply(opts.LargePageSize.Enabled, opts.LargePageSize.Risk, fc.Rules.LargePageSize)
	if fc.Rules.LargePageSize.MaxPageSize > 0 {
		opts.LargePageSize.MaxPageSize = fc.Rules.LargePageSize.MaxPageSize
	}

	opts.MissingOrderBy.Enabled, opts.MissingOrderBy.Risk = apply(opts.MissingOrderBy.Enabled, opts.MissingOrderBy.Risk, fc.Rules.MissingOrderBy)

	opts.NoPagination.Enabled, opts.NoPagination.Risk = apply(opts.NoPagination.Enabled, opts.NoPagination.Risk, fc.Rules.NoPagination)
	if len(fc.Rules.NoPagination.Fields) > 0 {
		opts.NoPagination.BlacklistFields = fc.Rules.NoPagination.Fields
	}

	opts.MultiStatement.Enabled, opts.MultiStatement.Risk = apply(opts.MultiStatement.Enabled, opts.MultiStatement.Risk, fc.Rules.MultiStatement)

	opts.SetOperation.Enabled, opts.SetOperation.Risk = apply(opts.SetOperation.Enabled, opts.SetOperation.Risk, fc.Rules.SetOperation)
	if len(fc.Rules.SetOperation.Allowed) > 0 {
		opts.SetOperation.Allowed = fc.Rules.SetOperation.Allowed
	}

	opts.SqlComment.Enabled, opts.SqlComment.Risk = apply(opts.SqlComment.Enabled, opts.SqlComment.Risk, fc.Rules.SqlComment)
	if fc.Rules.SqlComment.AllowHintComments != nil {
		opts.SqlComment.AllowHintComments = *fc.Rules.SqlComment.AllowHintComments
	}

	opts.IntoOutfile.Enabled, opts.IntoOutfile.Risk = apply(opts.IntoOutfile.Enabled, opts.IntoOutfile.Risk, fc.Rules.IntoOutfile)

	opts.DdlOperation.Enabled, opts.DdlOperation.Risk = apply(opts.DdlOperation.Enabled, opts.DdlOperation.Risk, fc.Rules.DdlOperation)
	if len(fc.Rules.DdlOperation.AllowedOperations) > 0 {
		opts.DdlOperation.AllowedOperations = fc.Rules.DdlOperation.AllowedOperations
	}

	opts.DangerousFunction.Enabled, opts.DangerousFunction.Risk = apply(opts.DangerousFunction.Enabled, opts.DangerousFunction.Risk, fc.Rules.DangerousFunction)
	if len(fc.Rules.DangerousFunction.Functions) > 0 {
		opts.DangerousFunction.Functions = fc.Rules.DangerousFunction.Functions
	}

	opts.CallStatement.Enabled, opts.CallStatement.Risk = apply(opts.CallStatement.Enabled, opts.CallStatement.Risk, fc.Rules.CallStatement)

	opts.MetadataStatement.Enabled, opts.MetadataStatement.Risk = apply(opts.MetadataStatement.Enabled, opts.MetadataStatement.Risk, fc.Rules.MetadataStatement)
	if len(fc.Rules.MetadataStatement.AllowedStatements) > 0 {
		opts.MetadataStatement.AllowedStatements = fc.Rules.MetadataStatement.AllowedStatements
	}

	opts.SetStatement.Enabled, opts.SetStatement.Risk = apply(opts.SetStatement.Enabled, opts.SetStatement.Risk, fc.Rules.SetStatement)

	opts.DeniedTable.Enabled, opts.DeniedTable.Risk = apply(opts.DeniedTable.Enabled, opts.DeniedTable.Risk, fc.Rules.DeniedTable)
	if len(fc.Rules.DeniedTable.Patterns) > 0 {
		opts.DeniedTable.Patterns = fc.Rules.DeniedTable.Patterns
	}

	opts.ReadOnlyTable.Enabled, opts.ReadOnlyTable.Risk = apply(opts.ReadOnlyTable.Enabled, opts.ReadOnlyTable.Risk, fc.Rules.ReadOnlyTable)
	if len(fc.Rules.ReadOnlyTable.Patterns) > 0 {
		opts.ReadOnlyTable.Patterns = fc.Rules.ReadOnlyTable.Patterns
	}

	r := &Resolved{
		ParserLenient:        fc.Parser.Lenient,
		ParserCacheSize:      fc.Parser.CacheSize,
		DeduplicationEnabled: true,
		DedupCacheSize:       dedup.DefaultSize,
		DedupTTLMillis:       int(dedup.DefaultTTL.Milliseconds()),
		ActiveStrategy:       fc.ActiveStrategy,
		Options:              opts,
	}
	if fc.Deduplication.Enabled != nil {
		r.DeduplicationEnabled = *fc.Deduplication.Enabled
	}
	if fc.Deduplication.CacheSize > 0 {
		r.DedupCacheSize = fc.Deduplication.CacheSize
	}
	if fc.Deduplication.TTLMillis > 0 {
		r.DedupTTLMillis = fc.Deduplication.TTLMillis
	}
	return r
}
