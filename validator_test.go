package sqlshield

import (
	"testing"

	"github.com/sqlshield/sqlshield/internal/sqlconfig"
)

func TestNewWithNilConfigUsesDocumentedDefaults(t *testing.T) {
	v, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New(nil, nil): %v", err)
	}
	if v.Strategy() != StrategyBlock {
		t.Errorf("default strategy = %v, want BLOCK", v.Strategy())
	}
}

func TestNewRejectsOutOfRangeDedupCacheSize(t *testing.T) {
	var fc sqlconfig.FileConfig
	resolved := fc.ToResolved()
	resolved.DedupCacheSize = 0

	_, err := New(resolved, nil)
	if err == nil {
		t.Fatal("expected a *ConfigError for dedup cache_size=0")
	}
	cfgErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if cfgErr.Field != "deduplication.cache_size" {
		t.Errorf("Field = %q, want %q", cfgErr.Field, "deduplication.cache_size")
	}
}

func TestNewRejectsOutOfRangeDedupTTL(t *testing.T) {
	var fc sqlconfig.FileConfig
	resolved := fc.ToResolved()
	resolved.DedupTTLMillis = 120000

	_, err := New(resolved, nil)
	if err == nil {
		t.Fatal("expected a *ConfigError for an out-of-range ttl_ms")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
}

func TestNewHonorsActiveStrategyFromConfig(t *testing.T) {
	var fc sqlconfig.FileConfig
	resolved := fc.ToResolved()
	resolved.ActiveStrategy = "warn"

	v, err := New(resolved, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v.Strategy() != StrategyWarn {
		t.Errorf("Strategy() = %v, want WARN", v.Strategy())
	}
}
