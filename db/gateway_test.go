package db

import (
	"context"
	"errors"
	"testing"
)

func TestCreateTableIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	gw := r.Gateway()

	for i := 0; i < 2; i++ {
		if err := gw.CreateTable(ctx, "gadget", []string{"name", "colour"}); err != nil {
			t.Fatalf("create table (round %d): %v", i, err)
		}
	}

	if _, err := gw.Execute(ctx, `INSERT INTO gadget (name, colour, user_name) VALUES (?, ?, ?)`, "lamp", "red", "alice"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rs, err := gw.FetchAll(ctx, `SELECT * FROM gadget`)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []string{"id", "name", "colour", "user_name"}
	if len(rs.Columns) != len(want) {
		t.Fatalf("columns = %v, want %v", rs.Columns, want)
	}
	for i, c := range want {
		if rs.Columns[i] != c {
			t.Errorf("column %d = %s, want %s", i, rs.Columns[i], c)
		}
	}
	if rs.Len() != 1 || rs.Value(0, "id") != int64(1) {
		t.Errorf("rows = %v", rs.Rows)
	}
}

func TestCreateTableKeepsExplicitUserName(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if err := r.Gateway().CreateTable(ctx, "widget", []string{"id", "name", "user_name"}); err != nil {
		t.Fatalf("create table: %v", err)
	}
	rs, err := r.Gateway().FetchAll(ctx, `SELECT * FROM widget`)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rs.Columns) != 3 {
		t.Errorf("columns = %v", rs.Columns)
	}
}

func TestCreateTableRejectsBadIdentifiers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if err := r.Gateway().CreateTable(ctx, "x; DROP TABLE users", []string{"name"}); err == nil {
		t.Error("bad table name accepted")
	}
	if err := r.Gateway().CreateTable(ctx, "x", []string{"name TEXT); --"}); err == nil {
		t.Error("bad column accepted")
	}
}

func TestGatewayErrorsAreSurfaced(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	var pe *PersistenceError
	if _, err := r.Gateway().Execute(ctx, `INSERT INTO no_such_table (a) VALUES (?)`, 1); !errors.As(err, &pe) {
		t.Errorf("execute err = %v, want PersistenceError", err)
	}
	rs, err := r.Gateway().FetchAll(ctx, `SELECT * FROM no_such_table`)
	if !errors.As(err, &pe) {
		t.Errorf("fetch err = %v, want PersistenceError", err)
	}
	if rs != nil {
		t.Errorf("fetch returned rows on failure: %v", rs)
	}
}

func TestValuesAreBoundNotInterpolated(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	evil := `x'); DROP TABLE users; --`
	id := addItem(t, r, "book", "alice", "name", evil)

	rs, err := r.Gateway().FetchAll(ctx, `SELECT name FROM book WHERE id = ?`, id)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rs.Len() != 1 || rs.Value(0, "name") != evil {
		t.Fatalf("rows = %v", rs.Rows)
	}
	if _, err := r.Gateway().FetchAll(ctx, `SELECT * FROM users`); err != nil {
		t.Fatalf("users table gone: %v", err)
	}
}

func TestResultSetStrings(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"category", "id", "genre"},
		Rows:    []Row{{"book", int64(3), nil}},
	}
	got := rs.Strings()
	if len(got) != 1 || got[0][0] != "book" || got[0][1] != "3" || got[0][2] != "" {
		t.Errorf("Strings() = %v", got)
	}
	if rs.Index("GENRE") != 2 || rs.Index("missing") != -1 {
		t.Error("Index lookup is wrong")
	}
	var empty *ResultSet
	if empty.Len() != 0 {
		t.Error("nil result set should be empty")
	}
}
