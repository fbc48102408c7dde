package sqlconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func withWorkingDir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("os.Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestFindConfigFilePrefersExplicitPathOverEverythingElse(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("active_strategy: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	withWorkingDir(t, dir)
	if err := os.WriteFile("sqlshield.yaml", []byte("active_strategy: log\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ConfigFilePath = explicit
	defer func() { ConfigFilePath = "" }()

	if got := FindConfigFile(); got != explicit {
		t.Errorf("FindConfigFile() = %q, want %q", got, explicit)
	}
}

func TestFindConfigFileFallsBackToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	if err := os.WriteFile("sqlshield.yaml", []byte("active_strategy: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(); got != "sqlshield.yaml" {
		t.Errorf("FindConfigFile() = %q, want %q", got, "sqlshield.yaml")
	}
}

func TestFindConfigFileReturnsEmptyWhenNothingExists(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("SQLSHIELD_CONFIG", "")
	t.Setenv("HOME", dir) // keep a real ~/.config/sqlshield on the test machine out of the picture

	if got := FindConfigFile(); got != "" {
		t.Errorf("FindConfigFile() = %q, want empty string", got)
	}
}

func TestLoadFileParsesYamlByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	content := "active_strategy: block\nrules:\n  no_where_clause:\n    enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.ActiveStrategy != "block" {
		t.Errorf("ActiveStrategy = %q, want %q", fc.ActiveStrategy, "block")
	}
	if fc.Rules.NoWhereClause.Enabled == nil || *fc.Rules.NoWhereClause.Enabled {
		t.Error("expected no_where_clause.enabled to parse as false")
	}
}

func TestLoadFileParsesJsonByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	content := `{"active_strategy": "log", "rules": {"denied_table": {"patterns": ["sys_*"]}}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.ActiveStrategy != "log" {
		t.Errorf("ActiveStrategy = %q, want %q", fc.ActiveStrategy, "log")
	}
	if len(fc.Rules.DeniedTable.Patterns) != 1 {
		t.Errorf("DeniedTable.Patterns = %v, want 1 entry", fc.Rules.DeniedTable.Patterns)
	}
}

func TestLoadFileTriesBothFormatsOnUnrecognizedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.conf")
	content := `{"active_strategy": "warn"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if fc.ActiveStrategy != "warn" {
		t.Errorf("ActiveStrategy = %q, want %q", fc.ActiveStrategy, "warn")
	}
}

func TestLoadFileReturnsErrorWhenNeitherFormatParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.conf")
	content := "not valid yaml or json: [}"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected an error for a file that parses as neither YAML nor JSON")
	}
}

func TestLoadAppliesEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	if err := os.WriteFile("sqlshield.yaml", []byte("active_strategy: log\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLSHIELD_STRATEGY", "block")
	t.Setenv("SQLSHIELD_DEDUP_ENABLED", "false")

	resolved, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved.ActiveStrategy != "block" {
		t.Errorf("ActiveStrategy = %q, want %q (env override)", resolved.ActiveStrategy, "block")
	}
	if resolved.DeduplicationEnabled {
		t.Error("expected SQLSHIELD_DEDUP_ENABLED=false to disable deduplication")
	}
}

func TestLoadWithNoConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	withWorkingDir(t, dir)
	t.Setenv("SQLSHIELD_CONFIG", "")
	t.Setenv("SQLSHIELD_STRATEGY", "")
	t.Setenv("SQLSHIELD_DEDUP_ENABLED", "")
	t.Setenv("HOME", dir)

	resolved, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !resolved.DeduplicationEnabled {
		t.Error("expected deduplication to default to enabled with no config file present")
	}
}
