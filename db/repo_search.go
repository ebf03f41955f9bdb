package db

import (
	"context"
	"fmt"
	"strings"

	"public_donation_inventory/models"
)

// SearchOne 单分类搜索：category, id, 该分类全部字段
func (r *Repo) SearchOne(ctx context.Context, t *models.ItemType, term string) (*ResultSet, error) {
	t, err := r.itemType(t.Name)
	if err != nil {
		return nil, err
	}
	fields := t.Fields()
	where, args := matchAny("", fields, term)
	q := fmt.Sprintf("SELECT %s, id, %s FROM %s WHERE %s",
		categoryTag(t), strings.Join(quoteAll(fields), ", "), quote(t.Table()), where)

	rs, err := r.gw.FetchAll(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	rs.Columns = append([]string{"category", "id"}, fields...)
	return rs, nil
}

// SearchAll 跨分类搜索：每个分类一条 SELECT，投影到统一列后 UNION（整体去重）。
// 结果无排序
func (r *Repo) SearchAll(ctx context.Context, types []*models.ItemType, term string) (*ResultSet, error) {
	types, err := r.registered(types)
	if err != nil {
		return nil, err
	}
	unified := UnionColumns(types)
	cols := append([]string{"category", "id"}, unified...)
	if len(types) == 0 {
		return &ResultSet{Columns: cols, Rows: []Row{}}, nil
	}

	subs := make([]string, 0, len(types))
	var args []any
	for _, t := range types {
		where, a := matchAny("", t.Fields(), term)
		subs = append(subs, fmt.Sprintf("SELECT %s, id, %s FROM %s WHERE %s",
			categoryTag(t), projectColumns(t, "", unified), quote(t.Table()), where))
		args = append(args, a...)
	}

	rs, err := r.gw.FetchAll(ctx, strings.Join(subs, "\nUNION\n"), args...)
	if err != nil {
		return nil, err
	}
	rs.Columns = cols
	return rs, nil
}

// ItemsAddedBy 某用户捐赠的全部物品。每行归属唯一，用 UNION ALL
func (r *Repo) ItemsAddedBy(ctx context.Context, userName string) (*ResultSet, error) {
	types := r.reg.All()
	unified := UnionColumns(types)

	subs := make([]string, 0, len(types))
	args := make([]any, 0, len(types))
	for _, t := range types {
		subs = append(subs, fmt.Sprintf("SELECT %s, id, %s, user_name FROM %s WHERE user_name = ?",
			categoryTag(t), projectColumns(t, "", unified), quote(t.Table())))
		args = append(args, userName)
	}

	rs, err := r.gw.FetchAll(ctx, strings.Join(subs, "\nUNION ALL\n"), args...)
	if err != nil {
		return nil, err
	}
	rs.Columns = append(append([]string{"category", "id"}, unified...), "user_name")
	return rs, nil
}

// registered 只接受 registry 里的分类，防止外部构造的名字进到 SQL
func (r *Repo) registered(types []*models.ItemType) ([]*models.ItemType, error) {
	out := make([]*models.ItemType, 0, len(types))
	for _, t := range types {
		rt, err := r.itemType(t.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, t.Name)
		}
		out = append(out, rt)
	}
	return out, nil
}
