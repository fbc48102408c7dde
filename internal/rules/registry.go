package rules

import (
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/sqlshield/sqlshield/internal/pattern"
)

// Options is the fully-resolved configuration for every checker, in
// catalogue order. internal/sqlconfig is responsible for turning a
// YAML/JSON document into one of these; Options itself carries no file
// format concerns.
type Options struct {
	NoWhereClause   NoWhereClauseConfig
	DummyCondition  DummyConditionConfig
	BlacklistFields BlacklistFieldsConfig
	WhitelistFields WhitelistFieldsConfig

	LogicalPagination     LogicalPaginationConfig
	NoConditionPagination NoConditionPaginationConfig
	DeepPagination        DeepPaginationConfig
	LargePageSize         LargePageSizeConfig
	MissingOrderBy        MissingOrderByConfig
	NoPagination          NoPaginationConfig

	MultiStatement     MultiStatementConfig
	SetOperation       SetOperationConfig
	SqlComment         SqlCommentConfig
	IntoOutfile        IntoOutfileConfig
	DdlOperation       DdlOperationConfig
	DangerousFunction  DangerousFunctionConfig
	CallStatement      CallStatementConfig
	MetadataStatement  MetadataStatementConfig
	SetStatement       SetStatementConfig
	DeniedTable        DeniedTableConfig
	ReadOnlyTable      ReadOnlyTableConfig
}

// DefaultOptions enables every checker at the risk spec.md §4.3 lists in
// brackets, with each rule's own parameter defaults.
func DefaultOptions() Options {
	return Options{
		NoWhereClause:   NoWhereClauseConfig{Enabled: true, Risk: model.RiskCritical},
		DummyCondition:  DummyConditionConfig{Enabled: true, Risk: model.RiskHigh},
		BlacklistFields: BlacklistFieldsConfig{Enabled: true, Risk: model.RiskHigh},
		WhitelistFields: WhitelistFieldsConfig{Enabled: true, Risk: model.RiskHigh},

		LogicalPagination:     LogicalPaginationConfig{Enabled: true, Risk: model.RiskCritical},
		NoConditionPagination: NoConditionPaginationConfig{Enabled: true, Risk: model.RiskCritical},
		DeepPagination:        DeepPaginationConfig{Enabled: true, Risk: model.RiskMedium, MaxOffset: DefaultMaxOffset},
		LargePageSize:         LargePageSizeConfig{Enabled: true, Risk: model.RiskMedium, MaxPageSize: DefaultMaxPageSize},
		MissingOrderBy:        MissingOrderByConfig{Enabled: true, Risk: model.RiskLow},
		NoPagination:          NoPaginationConfig{Enabled: true, Risk: model.RiskMedium},

		MultiStatement:     MultiStatementConfig{Enabled: true, Risk: model.RiskCritical},
		SetOperation:       SetOperationConfig{Enabled: true, Risk: model.RiskHigh},
		SqlComment:         SqlCommentConfig{Enabled: true, Risk: model.RiskHigh},
		IntoOutfile:        IntoOutfileConfig{Enabled: true, Risk: model.RiskCritical},
		DdlOperation:       DdlOperationConfig{Enabled: true, Risk: model.RiskCritical},
		DangerousFunction:  DangerousFunctionConfig{Enabled: true, Risk: model.RiskCritical},
		CallStatement:      CallStatementConfig{Enabled: true, Risk: model.RiskHigh},
		MetadataStatement:  MetadataStatementConfig{Enabled: true, Risk: model.RiskMedium},
		SetStatement:       SetStatementConfig{Enabled: true, Risk: model.RiskMedium},
		DeniedTable:        DeniedTableConfig{Enabled: true, Risk: model.RiskCritical},
		ReadOnlyTable:      ReadOnlyTableConfig{Enabled: true, Risk: model.RiskHigh},
	}
}

// Build constructs the ordered checker list a validator runs, in the
// §4.3 catalogue order (integrity, pagination, injection/access-control).
// This fixed construction, done once at validator-build time, is the
// "registry is data, not discovery" design spec.md §9 calls for in place
// of a service-loader scan.
func Build(opts Options, matcher *pattern.Matcher) []Checker {
	return []Checker{
		NewNoWhereClause(opts.NoWhereClause),
		NewDummyCondition(opts.DummyCondition),
		NewBlacklistFields(opts.BlacklistFields),
		NewWhitelistFields(opts.WhitelistFields),

		NewLogicalPagination(opts.LogicalPagination),
		NewNoConditionPagination(opts.NoConditionPagination),
		NewDeepPagination(opts.DeepPagination),
		NewLargePageSize(opts.LargePageSize),
		NewMissingOrderBy(opts.MissingOrderBy),
		NewNoPagination(opts.NoPagination),

		NewMultiStatement(opts.MultiStatement),
		NewSetOperation(opts.SetOperation),
		NewSqlComment(opts.SqlComment),
		NewIntoOutfile(opts.IntoOutfile),
		NewDdlOperation(opts.DdlOperation),
		NewDangerousFunction(opts.DangerousFunction),
		NewCallStatement(opts.CallStatement),
		NewMetadataStatement(opts.MetadataStatement),
		NewSetStatement(opts.SetStatement),
		NewDeniedTable(opts.DeniedTable, matcher),
		NewReadOnlyTable(opts.ReadOnlyTable, matcher),
	}
}
