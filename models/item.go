package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Item 一条待入库的捐赠物品；Values 里 nil 表示 NULL
type Item struct {
	Type   *ItemType
	Values map[string]*string
}

// Columns 与 Args 顺序一致，按分类声明的字段顺序
func (it Item) Columns() []string { return it.Type.Fields() }

func (it Item) Args() []any {
	args := make([]any, 0, len(it.Type.fields))
	for _, f := range it.Type.fields {
		if v := it.Values[f.Name]; v != nil {
			args = append(args, *v)
		} else {
			args = append(args, nil)
		}
	}
	return args
}

// Name 必填字段，Build 之后一定存在
func (it Item) Name() string {
	if v := it.Values["name"]; v != nil {
		return *v
	}
	return ""
}

// ValidateField 按字段规则校验原始输入，返回要存储的值
func ValidateField(f Field, raw string) (*string, error) {
	switch f.Rule {
	case RuleMandatory:
		if strings.TrimSpace(raw) == "" {
			return nil, &ValidationError{Field: f.Name, Reason: "cannot be empty"}
		}
		return &raw, nil
	case RuleOptionalDate:
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, nil
		}
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: "expected YYYY-MM-DD, e.g. 2014-12-14"}
		}
		out := d.Format(DateLayout)
		return &out, nil
	default:
		return &raw, nil
	}
}

type ItemBuilder struct {
	t      *ItemType
	values map[string]*string
	set    map[string]bool
}

func NewItemBuilder(t *ItemType) *ItemBuilder {
	return &ItemBuilder{t: t, values: map[string]*string{}, set: map[string]bool{}}
}

// Set 校验失败时不会写入
func (b *ItemBuilder) Set(field, raw string) error {
	f, ok := b.t.field(field)
	if !ok {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("not a field of %s", b.t.Name)}
	}
	v, err := ValidateField(f, raw)
	if err != nil {
		return err
	}
	b.values[field] = v
	b.set[field] = true
	return nil
}

func (b *ItemBuilder) Build() (Item, error) {
	for _, f := range b.t.fields {
		if f.Rule == RuleMandatory && !b.set[f.Name] {
			return Item{}, &ValidationError{Field: f.Name, Reason: "cannot be empty"}
		}
	}
	values := make(map[string]*string, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	return Item{Type: b.t, Values: values}, nil
}
