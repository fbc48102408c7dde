package model

import "strings"

// SqlCommandType is a closed classification of the statement's command
// shape, derived from the AST when one is available and otherwise from the
// leading keyword of the raw SQL text.
type SqlCommandType int

const (
	CommandUnknown SqlCommandType = iota
	CommandSelect
	CommandInsert
	CommandUpdate
	CommandDelete
	CommandDDL
	CommandCall
	CommandOther
)

func (c SqlCommandType) String() string {
	switch c {
	case CommandSelect:
		return "SELECT"
	case CommandInsert:
		return "INSERT"
	case CommandUpdate:
		return "UPDATE"
	case CommandDelete:
		return "DELETE"
	case CommandDDL:
		return "DDL"
	case CommandCall:
		return "CALL"
	case CommandOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// LeadingKeywordCommandType classifies raw SQL by its first keyword. Used
// as a fallback when no caller-supplied command type is available and the
// statement could not be parsed (lenient mode).
func LeadingKeywordCommandType(sql string) SqlCommandType {
	kw := leadingKeyword(sql)
	switch kw {
	case "SELECT":
		return CommandSelect
	case "INSERT", "REPLACE":
		return CommandInsert
	case "UPDATE":
		return CommandUpdate
	case "DELETE":
		return CommandDelete
	case "CREATE", "ALTER", "DROP", "TRUNCATE", "RENAME":
		return CommandDDL
	case "CALL", "EXEC", "EXECUTE":
		return CommandCall
	case "":
		return CommandUnknown
	default:
		return CommandOther
	}
}

// leadingKeyword returns the first whitespace-delimited token of the
// trimmed SQL, upper-cased, or "" if the text is empty.
func leadingKeyword(sql string) string {
	s := strings.TrimSpace(sql)
	if s == "" {
		return ""
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '('
	})
	if end == -1 {
		end = len(s)
	}
	return strings.ToUpper(s[:end])
}
