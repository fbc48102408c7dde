package rules

import (
	"testing"

	"github.com/sqlshield/sqlshield/internal/model"
)

func TestLogicalPaginationTriggersWithoutPhysicalRewriter(t *testing.T) {
	c := NewLogicalPagination(LogicalPaginationConfig{Enabled: true, Risk: model.RiskCritical})
	ctx := parseCtx(t, "SELECT id FROM users")
	ctx.LogicalPagingClaim = true
	ctx.HasPhysicalPaging = false

	result := &model.ValidationResult{}
	c.CheckAST(ctx, result)
	if result.Passed() {
		t.Error("expected a violation when logical pagination is claimed with no physical rewriter")
	}
}

func TestLogicalPaginationPassesWithPhysicalRewriter(t *testing.T) {
	c := NewLogicalPagination(LogicalPaginationConfig{Enabled: true, Risk: model.RiskCritical})
	ctx := parseCtx(t, "SELECT id FROM users")
	ctx.LogicalPagingClaim = true
	ctx.HasPhysicalPaging = true

	result := &model.ValidationResult{}
	c.CheckAST(ctx, result)
	if !result.Passed() {
		t.Error("a physical rewriter installed should pass")
	}
}

func TestNoConditionPaginationTriggersOnLimitWithoutWhere(t *testing.T) {
	c := NewNoConditionPagination(NoConditionPaginationConfig{Enabled: true, Risk: model.RiskCritical})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users LIMIT 50"), result)
	if result.Passed() {
		t.Error("expected a violation for LIMIT with no WHERE")
	}
}

func TestNoConditionPaginationAllowsLimitWithWhere(t *testing.T) {
	c := NewNoConditionPagination(NoConditionPaginationConfig{Enabled: true, Risk: model.RiskCritical})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users WHERE active = 1 LIMIT 50"), result)
	if !result.Passed() {
		t.Error("LIMIT with a WHERE clause should pass")
	}
}

func TestDeepPaginationTriggersPastMaxOffset(t *testing.T) {
	c := NewDeepPagination(DeepPaginationConfig{Enabled: true, Risk: model.RiskMedium, MaxOffset: 100})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users LIMIT 10 OFFSET 200"), result)
	if result.Passed() {
		t.Error("expected a violation for OFFSET exceeding the configured max")
	}
}

func TestDeepPaginationAllowsShallowOffset(t *testing.T) {
	c := NewDeepPagination(DeepPaginationConfig{Enabled: true, Risk: model.RiskMedium, MaxOffset: 100})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users LIMIT 10 OFFSET 5"), result)
	if !result.Passed() {
		t.Error("an offset under the max should pass")
	}
}

func TestLargePageSizeTriggersPastMax(t *testing.T) {
	c := NewLargePageSize(LargePageSizeConfig{Enabled: true, Risk: model.RiskMedium, MaxPageSize: 100})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users LIMIT 500"), result)
	if result.Passed() {
		t.Error("expected a violation for LIMIT exceeding the configured max page size")
	}
}

func TestLargePageSizeAllowsSmallPage(t *testing.T) {
	c := NewLargePageSize(LargePageSizeConfig{Enabled: true, Risk: model.RiskMedium, MaxPageSize: 100})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users LIMIT 10"), result)
	if !result.Passed() {
		t.Error("a small page size should pass")
	}
}

func TestMissingOrderByTriggersOnPaginatedSelectWithoutOrderBy(t *testing.T) {
	c := NewMissingOrderBy(MissingOrderByConfig{Enabled: true, Risk: model.RiskLow})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users LIMIT 10"), result)
	if result.Passed() {
		t.Error("expected a violation for a paginated SELECT with no ORDER BY")
	}
}

func TestMissingOrderByAllowsOrderedPagination(t *testing.T) {
	c := NewMissingOrderBy(MissingOrderByConfig{Enabled: true, Risk: model.RiskLow})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users ORDER BY id LIMIT 10"), result)
	if !result.Passed() {
		t.Error("an ORDER BY present should pass")
	}
}

func TestNoPaginationRiskStratification(t *testing.T) {
	c := NewNoPagination(NoPaginationConfig{Enabled: true, Risk: model.RiskMedium})

	critical := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users"), critical)
	if critical.Risk != model.RiskCritical {
		t.Errorf("no WHERE at all: Risk = %v, want RiskCritical", critical.Risk)
	}

	high := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users WHERE status = 'active'"), high)
	if high.Risk != model.RiskHigh {
		t.Errorf("WHERE on only blacklisted columns: Risk = %v, want RiskHigh", high.Risk)
	}

	medium := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users WHERE id = 5"), medium)
	if medium.Risk != model.RiskMedium {
		t.Errorf("WHERE on a real column: Risk = %v, want RiskMedium", medium.Risk)
	}
}

func TestNoPaginationPassesWithLimit(t *testing.T) {
	c := NewNoPagination(NoPaginationConfig{Enabled: true, Risk: model.RiskMedium})
	result := &model.ValidationResult{}
	c.CheckAST(parseCtx(t, "SELECT id FROM users WHERE id = 5 LIMIT 10"), result)
	if !result.Passed() {
		t.Error("a SELECT with a LIMIT should pass")
	}
}
