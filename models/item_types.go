// models/item_types.go
package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// FieldRule 决定录入某字段时的校验方式
type FieldRule int

const (
	RulePlain FieldRule = iota
	RuleMandatory
	RuleOptionalDate
)

func (r FieldRule) String() string {
	switch r {
	case RuleMandatory:
		return "mandatory"
	case RuleOptionalDate:
		return "optional date"
	default:
		return "plain"
	}
}

type Field struct {
	Name string
	Rule FieldRule
}

// ItemType 描述一个分类：名字同时就是表名，字段有序且不可变
type ItemType struct {
	Key    int
	Name   string
	fields []Field
}

// Fields 返回字段名（拷贝）
func (t *ItemType) Fields() []string {
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = f.Name
	}
	return out
}

func (t *ItemType) Specs() []Field {
	return append([]Field(nil), t.fields...)
}

func (t *ItemType) Table() string { return t.Name }

func (t *ItemType) HasField(name string) bool {
	_, ok := t.field(name)
	return ok
}

func (t *ItemType) field(name string) (Field, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Label e.g. "western_comic" -> "Western comic"
func (t *ItemType) Label() string {
	s := strings.ReplaceAll(t.Name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdent 只有符合它的名字才会被拼进 SQL
func ValidIdent(s string) bool { return identRe.MatchString(s) }

// ruleFor: 名字里带 name 的必填，date 为可选日期
func ruleFor(field string) FieldRule {
	switch {
	case strings.Contains(field, "name"):
		return RuleMandatory
	case strings.Contains(field, "date"):
		return RuleOptionalDate
	default:
		return RulePlain
	}
}

// NewItemType 按字段名推导校验规则
func NewItemType(key int, name string, fields ...string) (*ItemType, error) {
	if !ValidIdent(name) {
		return nil, fmt.Errorf("item type %q: invalid identifier", name)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("item type %q: no fields", name)
	}
	t := &ItemType{Key: key, Name: name}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !ValidIdent(f) || f == "id" || f == "user_name" {
			return nil, fmt.Errorf("item type %q: invalid field %q", name, f)
		}
		if seen[f] {
			return nil, fmt.Errorf("item type %q: duplicate field %q", name, f)
		}
		seen[f] = true
		t.fields = append(t.fields, Field{Name: f, Rule: ruleFor(f)})
	}
	if !seen["name"] {
		return nil, fmt.Errorf("item type %q: missing name field", name)
	}
	return t, nil
}

// Registry 菜单编号 -> 分类
type Registry struct {
	byKey  map[int]*ItemType
	byName map[string]*ItemType
	order  []*ItemType
}

func NewRegistry(types ...*ItemType) (*Registry, error) {
	r := &Registry{byKey: map[int]*ItemType{}, byName: map[string]*ItemType{}}
	for _, t := range types {
		if _, dup := r.byKey[t.Key]; dup {
			return nil, fmt.Errorf("registry: duplicate key %d", t.Key)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate item type %q", t.Name)
		}
		r.byKey[t.Key] = t
		r.byName[t.Name] = t
		r.order = append(r.order, t)
	}
	sort.SliceStable(r.order, func(i, j int) bool { return r.order[i].Key < r.order[j].Key })
	return r, nil
}

func mustType(key int, name string, fields ...string) *ItemType {
	t, err := NewItemType(key, name, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultRegistry 新增分类只需要在这里加一行
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		mustType(1, "book", "name", "author", "genre", "date"),
		mustType(2, "magazine", "name", "publisher", "genre", "date"),
		mustType(3, "journal", "name", "author", "journal_name", "volume", "issue", "format"),
		mustType(4, "manga", "name", "author", "publisher", "format"),
		mustType(5, "western_comic", "name", "author", "publisher", "format"),
		mustType(6, "research_paper", "name", "author", "journal_name", "abstract", "keywords", "date"),
	)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(key int) (*ItemType, bool) {
	t, ok := r.byKey[key]
	return t, ok
}

func (r *Registry) ByName(name string) (*ItemType, bool) {
	t, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// All 按菜单编号排序
func (r *Registry) All() []*ItemType {
	return append([]*ItemType(nil), r.order...)
}

func (r *Registry) Len() int { return len(r.order) }
