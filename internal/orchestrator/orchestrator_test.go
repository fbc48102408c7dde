package orchestrator

import (
	"testing"

	"github.com/sqlshield/sqlshield/internal/ast"
	"github.com/sqlshield/sqlshield/internal/model"
	"github.com/sqlshield/sqlshield/internal/rules"
	"github.com/xwb1989/sqlparser"
)

// stubChecker is a minimal rules.Checker used to drive the orchestrator
// without depending on the real rule catalogue.
type stubChecker struct {
	tag     string
	enabled bool
	calls   *[]string
	panicOn bool
}

func (s *stubChecker) Tag() string   { return s.tag }
func (s *stubChecker) Enabled() bool { return s.enabled }

type stubAstChecker struct{ stubChecker }

func (s *stubAstChecker) CheckAST(ctx *model.RuleContext, result *model.ValidationResult) {
	*s.calls = append(*s.calls, s.tag)
	if s.panicOn {
		panic("boom")
	}
}

type stubRawChecker struct{ stubChecker }

func (s *stubRawChecker) CheckRaw(ctx *model.RuleContext, result *model.ValidationResult) {
	*s.calls = append(*s.calls, s.tag)
	if s.panicOn {
		panic("boom")
	}
}

func newStubAst(tag string, enabled bool, calls *[]string) rules.Checker {
	return &stubAstChecker{stubChecker{tag: tag, enabled: enabled, calls: calls}}
}

func newStubRaw(tag string, enabled bool, calls *[]string) rules.Checker {
	return &stubRawChecker{stubChecker{tag: tag, enabled: enabled, calls: calls}}
}

type fakeLogger struct {
	warnings []string
}

func (f *fakeLogger) Warn(message string, fields map[string]any) {
	f.warnings = append(f.warnings, message)
}

func parsedCtx(t *testing.T, sql string) *model.RuleContext {
	t.Helper()
	parsed, err := sqlparser.Parse(sql)
	if err != nil {
		t.Fatalf("sqlparser.Parse(%q): %v", sql, err)
	}
	return &model.RuleContext{SQL: sql, Parsed: ast.FromParsed(parsed, sql)}
}

func TestRunInvokesCheckersInOrder(t *testing.T) {
	var calls []string
	checkers := []rules.Checker{
		newStubAst("a", true, &calls),
		newStubRaw("b", true, &calls),
		newStubAst("c", true, &calls),
	}
	Run(checkers, parsedCtx(t, "SELECT 1"), nil)

	want := []string{"a", "b", "c"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestRunSkipsAstCheckerOnUnknownStatement(t *testing.T) {
	var calls []string
	astChecker := newStubAst("ast", true, &calls)
	rawChecker := newStubRaw("raw", true, &calls)

	ctx := &model.RuleContext{SQL: "not sql at all ;;;", Parsed: nil}
	Run([]rules.Checker{astChecker, rawChecker}, ctx, nil)

	if len(calls) != 1 || calls[0] != "raw" {
		t.Errorf("calls = %v, want only the raw checker to run", calls)
	}
}

func TestRunSkipsDisabledChecker(t *testing.T) {
	var calls []string
	checkers := []rules.Checker{
		newStubAst("enabled", true, &calls),
		newStubAst("disabled", false, &calls),
	}
	Run(checkers, parsedCtx(t, "SELECT 1"), nil)

	if len(calls) != 1 || calls[0] != "enabled" {
		t.Errorf("calls = %v, want only the enabled checker to run", calls)
	}
}

func TestRunContainsPanicAndContinues(t *testing.T) {
	var calls []string
	panicker := newStubAst("panicker", true, &calls).(*stubAstChecker)
	panicker.panicOn = true
	survivor := newStubAst("survivor", true, &calls)

	logger := &fakeLogger{}
	Run([]rules.Checker{panicker, survivor}, parsedCtx(t, "SELECT 1"), logger)

	if len(calls) != 2 {
		t.Fatalf("calls = %v, want both checkers to have run", calls)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one panic warning", logger.warnings)
	}
}

func TestRunAlwaysRunsRawTextCheckerEvenWhenUnknown(t *testing.T) {
	var calls []string
	rawChecker := newStubRaw("raw", true, &calls)
	ctx := &model.RuleContext{SQL: "", Parsed: nil}
	Run([]rules.Checker{rawChecker}, ctx, nil)

	if len(calls) != 1 {
		t.Errorf("calls = %v, want the raw checker to run unconditionally", calls)
	}
}
