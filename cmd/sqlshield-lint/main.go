// Command sqlshield-lint runs the sqlshield core over one or more .sql
// files (or stdin) and prints a report. It is a minimal smoke-test
// harness for the core, not the build-time repository scanner spec.md
// §1 excludes from scope — it does not extract SQL from mapper files or
// source annotations, only from the files it is pointed at directly.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/sqlshield/sqlshield"
	"github.com/sqlshield/sqlshield/internal/rawtext"
	"github.com/sqlshield/sqlshield/internal/sqlconfig"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a sqlshield config file (YAML or JSON)")
		strategy   = flag.String("strategy", "", "override active_strategy (PASS|LOG|WARN|BLOCK)")
		jsonLogs   = flag.Bool("json-logs", os.Getenv("SQLSHIELD_JSON_LOGS") == "1", "emit structured JSON logs instead of plain text")
		auditPath  = flag.String("audit-log", os.Getenv("SQLSHIELD_AUDIT_LOG"), "path to append one JSON line per validated statement")
	)
	flag.Parse()

	if *configPath != "" {
		sqlconfig.ConfigFilePath = *configPath
	}
	if *strategy != "" {
		_ = os.Setenv("SQLSHIELD_STRATEGY", *strategy)
	}

	logger := stderrLogger{json: *jsonLogs}

	audit, err := newAuditLogger(*auditPath)
	if err != nil {
		log.Fatalf("audit log init error: %v", err)
	}
	defer audit.Close()

	resolved, err := sqlconfig.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	validator, err := sqlshield.New(resolved, logger)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	worker := validator.NewWorker()

	args := flag.Args()
	exitCode := 0
	if len(args) == 0 {
		exitCode = lintReader(os.Stdin, "stdin", worker, audit, logger)
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			logger.Warn("failed to open input file", map[string]any{"path": path, "error": err.Error()})
			exitCode = 1
			continue
		}
		if code := lintReader(f, path, worker, audit, logger); code != 0 {
			exitCode = code
		}
		f.Close()
	}
	os.Exit(exitCode)
}

// lintReader reads all of r, naively splits it into statements on
// unquoted semicolons (reusing the same literal-aware scanner
// MultiStatement itself uses), and validates each one in turn. This is
// intentionally not a SQL-aware statement splitter with CTE/DELIMITER
// support; it exists to drive the core against real files, not to replace
// the build-time scanner spec.md excludes.
func lintReader(r io.Reader, label string, worker *sqlshield.WorkerValidator, audit *auditLogger, logger stderrLogger) int {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		logger.Warn("failed to read input", map[string]any{"source": label, "error": err.Error()})
		return 1
	}

	statements := splitStatements(string(data))
	exitCode := 0
	for i, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		statementID := fmt.Sprintf("%s:%d", label, i+1)
		ctx := sqlshield.NewSqlContext(stmt, sqlshield.CommandUnknown, statementID)

		result, verr := worker.ValidateAndHandle(ctx)
		var parseErr *sqlshield.ParseError
		var safety *sqlshield.SafetyViolation
		switch {
		case errors.As(verr, &parseErr):
			// expected in strict mode; result still carries the
			// unparseable_sql violation and was cached under normal rules.
		case errors.As(verr, &safety):
			// expected under BLOCK; reported below from result directly.
		case verr != nil:
			logger.Warn("unexpected validation error", map[string]any{"statement_id": statementID, "error": verr.Error()})
			exitCode = 1
			continue
		}

		audit.log(auditEntry{
			StatementID: statementID,
			Risk:        result.Risk.String(),
			Passed:      result.Passed(),
			Violations:  len(result.Violations),
		})

		if result.Passed() {
			continue
		}
		exitCode = 1
		fmt.Printf("%s: %s\n", statementID, result.Risk)
		for _, v := range result.Violations {
			fmt.Printf("  [%s] %s: %s\n", v.Risk, v.RuleTag, v.Message)
			if v.Suggestion != "" {
				fmt.Printf("      suggestion: %s\n", v.Suggestion)
			}
		}
	}
	return exitCode
}

func splitStatements(sql string) []string {
	idx := rawtext.UnquotedSemicolons(sql)
	runes := []rune(sql)
	var out []string
	start := 0
	for _, i := range idx {
		out = append(out, string(runes[start:i]))
		start = i + 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}
