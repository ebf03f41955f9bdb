package db

import (
	"context"
	"fmt"
	"strings"

	"public_donation_inventory/models"
)

// AddItem 写入分类表，返回新 id
func (r *Repo) AddItem(ctx context.Context, it models.Item, userName string) (int64, error) {
	if it.Type == nil {
		return 0, ErrUnknownCategory
	}
	t, err := r.itemType(it.Type.Name)
	if err != nil {
		return 0, err
	}
	cols := quoteAll(append(it.Columns(), "user_name"))
	args := append(it.Args(), userName)
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		quote(t.Table()), strings.Join(cols, ", "), ph)
	return r.gw.InsertReturningID(ctx, q, args...)
}
