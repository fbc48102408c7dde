package sqlshield

import "github.com/sqlshield/sqlshield/internal/model"

// RiskLevel and SqlCommandType are the two closed enums in the public
// surface; both live in internal/model so internal/rules and
// internal/orchestrator can depend on them without importing this package.
type (
	RiskLevel      = model.RiskLevel
	SqlCommandType = model.SqlCommandType
	Violation      = model.Violation
	ValidationResult = model.ValidationResult
)

const (
	RiskSafe     = model.RiskSafe
	RiskLow      = model.RiskLow
	RiskMedium   = model.RiskMedium
	RiskHigh     = model.RiskHigh
	RiskCritical = model.RiskCritical
)

const (
	CommandUnknown SqlCommandType = model.CommandUnknown
	CommandSelect  SqlCommandType = model.CommandSelect
	CommandInsert  SqlCommandType = model.CommandInsert
	CommandUpdate  SqlCommandType = model.CommandUpdate
	CommandDelete  SqlCommandType = model.CommandDelete
	CommandDDL     SqlCommandType = model.CommandDDL
	CommandCall    SqlCommandType = model.CommandCall
	CommandOther   SqlCommandType = model.CommandOther
)

func leadingKeywordCommandType(sql string) SqlCommandType {
	return model.LeadingKeywordCommandType(sql)
}
