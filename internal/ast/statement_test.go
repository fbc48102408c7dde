package ast

import (
	"testing"

	"github.com/xwb1989/sqlparser"
)

func mustParse(t *testing.T, sql string) *Statement {
	t.Helper()
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		t.Fatalf("sqlparser.Parse(%q): %v", sql, err)
	}
	return FromParsed(stmt, sql)
}

func TestFromParsedSelectShape(t *testing.T) {
	s := mustParse(t, "SELECT id FROM users WHERE id = 1 ORDER BY id LIMIT 10 OFFSET 20")
	if s.Kind != KindSelect {
		t.Fatalf("Kind = %v, want KindSelect", s.Kind)
	}
	if !s.Select.HasWhere || !s.Select.HasLimit || !s.Select.HasOffset || !s.Select.HasOrderBy {
		t.Errorf("expected all clauses detected, got %+v", s.Select)
	}
	if s.Select.Limit != 10 {
		t.Errorf("Limit = %d, want 10", s.Select.Limit)
	}
	if s.Select.Offset != 20 {
		t.Errorf("Offset = %d, want 20", s.Select.Offset)
	}
}

func TestFromParsedSelectAggregateOnly(t *testing.T) {
	s := mustParse(t, "SELECT COUNT(*) FROM users")
	if !s.Select.IsAggregate {
		t.Error("expected a pure-aggregate select list to be detected as aggregate")
	}

	s2 := mustParse(t, "SELECT id, COUNT(*) FROM users GROUP BY id")
	if !s2.Select.IsAggregate {
		t.Error("expected GROUP BY to mark the select as aggregate")
	}

	s3 := mustParse(t, "SELECT id, name FROM users")
	if s3.Select.IsAggregate {
		t.Error("a plain column select list should not be aggregate")
	}
}

func TestFromParsedUnionFlattensSetOps(t *testing.T) {
	s := mustParse(t, "SELECT id FROM a UNION SELECT id FROM b UNION ALL SELECT id FROM c")
	if s.Kind != KindSelect {
		t.Fatalf("Kind = %v, want KindSelect", s.Kind)
	}
	if len(s.SetOps) != 2 {
		t.Fatalf("len(SetOps) = %d, want 2", len(s.SetOps))
	}
}

func TestFromParsedInsertUpdateDelete(t *testing.T) {
	ins := mustParse(t, "INSERT INTO users (id) VALUES (1)")
	if ins.Kind != KindInsert || ins.Insert.TargetTable != "users" {
		t.Errorf("insert shape = %+v", ins.Insert)
	}

	upd := mustParse(t, "UPDATE users SET name = 'x' WHERE id = 1")
	if upd.Kind != KindUpdate || upd.Update.TargetTable != "users" || !upd.Update.HasWhere {
		t.Errorf("update shape = %+v", upd.Update)
	}

	del := mustParse(t, "DELETE FROM users WHERE id = 1")
	if del.Kind != KindDelete || del.Delete.TargetTable != "users" || !del.Delete.HasWhere {
		t.Errorf("delete shape = %+v", del.Delete)
	}
}

func TestFromParsedDDL(t *testing.T) {
	s := mustParse(t, "CREATE TABLE t (id INT)")
	if s.Kind != KindDDL || s.DDLOp != DDLCreateTable {
		t.Errorf("DDL shape = %+v", s)
	}

	drop := mustParse(t, "DROP TABLE t")
	if drop.DDLOp != DDLDrop {
		t.Errorf("DDLOp = %v, want DDLDrop", drop.DDLOp)
	}
}

func TestFromParsedFallsBackToKindExecute(t *testing.T) {
	s := mustParse(t, "SHOW TABLES")
	if s.Kind != KindExecute {
		t.Errorf("Kind = %v, want KindExecute", s.Kind)
	}
}

func TestStripIdentifier(t *testing.T) {
	cases := map[string]string{
		"`users`":       "users",
		`"users"`:       "users",
		"[users]":       "users",
		"db.users":      "users",
		"`db`.`users`": "`users", // only the outermost delimiter pair is stripped, then the schema prefix
		"users":         "users",
	}
	for in, want := range cases {
		if got := StripIdentifier(in); got != want {
			t.Errorf("StripIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}
