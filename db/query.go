package db

import (
	"fmt"
	"strings"

	"public_donation_inventory/models"
)

// quote 只用于 registry 里的标识符
func quote(ident string) string { return `"` + ident + `"` }

func quoteAll(idents []string) []string {
	out := make([]string, len(idents))
	for i, s := range idents {
		out[i] = quote(s)
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func likePattern(term string) string {
	return "%" + escapeLike(strings.ToLower(term)) + "%"
}

// matchAny: 任一字段包含关键词（不区分大小写）
func matchAny(alias string, fields []string, term string) (string, []any) {
	parts := make([]string, len(fields))
	args := make([]any, len(fields))
	pat := likePattern(term)
	for i, f := range fields {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column(alias, f))
		args[i] = pat
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func column(alias, f string) string {
	if alias == "" {
		return quote(f)
	}
	return alias + "." + quote(f)
}

// UnionColumns 各分类字段的有序并集，按首次出现的顺序去重
func UnionColumns(types []*models.ItemType) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range types {
		for _, f := range t.Fields() {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// projectColumns 把某分类投影到统一列上，缺的列补 NULL
func projectColumns(t *models.ItemType, alias string, unified []string) string {
	sel := make([]string, len(unified))
	for i, c := range unified {
		if t.HasField(c) {
			sel[i] = column(alias, c) + " AS " + quote(c)
		} else {
			sel[i] = "CAST(NULL AS TEXT) AS " + quote(c)
		}
	}
	return strings.Join(sel, ", ")
}

// categoryTag 分类名作为字面量写进 SELECT，名字已通过 ValidIdent
func categoryTag(t *models.ItemType) string {
	return "'" + t.Name + "' AS category"
}

// durationExpr 借期天数（due_date - borrow_date）
func durationExpr(dialect string) string {
	if dialect == DriverPostgres {
		return "ABS(CAST(due_date AS date) - CAST(borrow_date AS date))"
	}
	return "ABS(julianday(due_date) - julianday(borrow_date))"
}
