package models

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	if r.Len() != 6 {
		t.Fatalf("expected 6 item types, got %d", r.Len())
	}

	want := []string{"book", "magazine", "journal", "manga", "western_comic", "research_paper"}
	for i, it := range r.All() {
		if it.Name != want[i] {
			t.Errorf("position %d: got %s, want %s", i, it.Name, want[i])
		}
		if it.Key != i+1 {
			t.Errorf("%s: key %d, want %d", it.Name, it.Key, i+1)
		}
		if !it.HasField("name") {
			t.Errorf("%s has no name field", it.Name)
		}
	}

	book, ok := r.Lookup(1)
	if !ok || book.Name != "book" {
		t.Fatalf("Lookup(1) = %v, %v", book, ok)
	}
	if !reflect.DeepEqual(book.Fields(), []string{"name", "author", "genre", "date"}) {
		t.Errorf("book fields = %v", book.Fields())
	}
	if _, ok := r.Lookup(7); ok {
		t.Error("Lookup(7) should fail")
	}
	if it, ok := r.ByName(" Western_Comic "); !ok || it.Key != 5 {
		t.Errorf("ByName western_comic = %v, %v", it, ok)
	}
}

func TestFieldRules(t *testing.T) {
	r := DefaultRegistry()
	paper, _ := r.ByName("research_paper")

	rules := map[string]FieldRule{}
	for _, f := range paper.Specs() {
		rules[f.Name] = f.Rule
	}
	if rules["name"] != RuleMandatory || rules["journal_name"] != RuleMandatory {
		t.Errorf("name fields should be mandatory: %v", rules)
	}
	if rules["date"] != RuleOptionalDate {
		t.Errorf("date rule = %v", rules["date"])
	}
	if rules["abstract"] != RulePlain {
		t.Errorf("abstract rule = %v", rules["abstract"])
	}
}

func TestFieldsIsACopy(t *testing.T) {
	book, _ := DefaultRegistry().Lookup(1)
	f := book.Fields()
	f[0] = "hacked"
	if book.Fields()[0] != "name" {
		t.Fatal("Fields must not expose internal slice")
	}
}

func TestNewItemTypeRejectsBadIdentifiers(t *testing.T) {
	cases := []struct {
		name   string
		fields []string
	}{
		{"Book; DROP TABLE users", []string{"name"}},
		{"book", []string{"name", "bad field"}},
		{"book", []string{"name", "name"}},
		{"book", []string{"author"}},
		{"book", []string{"name", "id"}},
		{"book", nil},
	}
	for _, c := range cases {
		if _, err := NewItemType(1, c.name, c.fields...); err == nil {
			t.Errorf("NewItemType(%q, %v) should fail", c.name, c.fields)
		}
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	a, _ := NewItemType(1, "book", "name")
	b, _ := NewItemType(1, "magazine", "name")
	c, _ := NewItemType(2, "book", "name")
	if _, err := NewRegistry(a, b); err == nil {
		t.Error("duplicate key accepted")
	}
	if _, err := NewRegistry(a, c); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestLabel(t *testing.T) {
	r := DefaultRegistry()
	wc, _ := r.Lookup(5)
	if got := wc.Label(); got != "Western comic" {
		t.Errorf("Label() = %q", got)
	}
}

func TestItemBuilder(t *testing.T) {
	book, _ := DefaultRegistry().Lookup(1)

	b := NewItemBuilder(book)
	if err := b.Set("name", "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: err = %v", err)
	}
	if err := b.Set("date", "14/12/2014"); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad date: err = %v", err)
	}
	if err := b.Set("isbn", "123"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown field: err = %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("Build without name should fail")
	}

	mustSet := func(f, v string) {
		t.Helper()
		if err := b.Set(f, v); err != nil {
			t.Fatalf("Set(%s): %v", f, err)
		}
	}
	mustSet("name", "The Hobbit")
	mustSet("author", "Tolkien")
	mustSet("date", "")

	it, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if it.Name() != "The Hobbit" {
		t.Errorf("Name() = %q", it.Name())
	}
	args := it.Args()
	if len(args) != 4 {
		t.Fatalf("args = %v", args)
	}
	if args[0] != "The Hobbit" || args[1] != "Tolkien" {
		t.Errorf("args = %v", args)
	}
	// genre never set, date left empty -> NULL
	if args[2] != nil || args[3] != nil {
		t.Errorf("expected NULL genre/date, got %v %v", args[2], args[3])
	}

	mustSet("date", "1937-09-21")
	it, _ = b.Build()
	if got := it.Args()[3]; got != "1937-09-21" {
		t.Errorf("date arg = %v", got)
	}
}

func TestTransactionActive(t *testing.T) {
	day := "2024-01-08"
	open := Transaction{Status: StatusBorrowed}
	closed := Transaction{Status: StatusReturned, ReturnDate: &day}
	if !open.Active() || closed.Active() {
		t.Errorf("open.Active = %v, closed.Active = %v", open.Active(), closed.Active())
	}
}
