package ast

import (
	"testing"
)

func TestTablesIncludesJoinsAndSubqueries(t *testing.T) {
	s := mustParse(t, "SELECT a.id FROM a JOIN b ON a.id = b.id WHERE a.id IN (SELECT id FROM c)")
	refs := Tables(s)

	names := map[string]bool{}
	for _, r := range refs {
		names[r.Name] = true
	}
	for _, want := range []string{"a", "b", "c"} {
		if !names[want] {
			t.Errorf("expected table %q in %v", want, names)
		}
	}
}

func TestTablesDeduplicatesRepeatedSelfJoin(t *testing.T) {
	// Both sides reference the same unqualified table name; Tables() dedups
	// by raw identifier, so a self-join collapses to one reference
	// regardless of the aliases used in the query.
	s := mustParse(t, "SELECT * FROM users a JOIN users b ON a.id = b.parent_id")
	refs := Tables(s)
	if len(refs) != 1 || refs[0].Name != "users" {
		t.Errorf("expected a single deduplicated \"users\" reference, got %+v", refs)
	}
}

func TestTargetTable(t *testing.T) {
	ins := mustParse(t, "INSERT INTO orders (id) VALUES (1)")
	name, ok := TargetTable(ins)
	if !ok || name != "orders" {
		t.Errorf("TargetTable(insert) = (%q, %v), want (orders, true)", name, ok)
	}

	sel := mustParse(t, "SELECT * FROM orders")
	if _, ok := TargetTable(sel); ok {
		t.Error("TargetTable should not apply to a SELECT")
	}
}

func TestDangerousFunctionWalkFindsNestedCalls(t *testing.T) {
	s := mustParse(t, "SELECT * FROM users WHERE id = 1 AND SLEEP(5) = 0")
	var found []string
	DangerousFunctionWalk(s, func(name string) {
		found = append(found, name)
	})

	seen := false
	for _, f := range found {
		if f == "sleep" {
			seen = true
		}
	}
	if !seen {
		t.Errorf("expected to find sleep() in %v", found)
	}
}

func TestDangerousFunctionWalkNoFunctions(t *testing.T) {
	s := mustParse(t, "SELECT id FROM users WHERE id = 1")
	var found []string
	DangerousFunctionWalk(s, func(name string) {
		found = append(found, name)
	})
	if len(found) != 0 {
		t.Errorf("expected no function calls, got %v", found)
	}
}
