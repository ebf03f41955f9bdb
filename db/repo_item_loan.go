package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"public_donation_inventory/models"

	"gorm.io/gorm"
)

// 借出：检查 + 插入在同一个事务里，部分唯一索引兜底
func (r *Repo) Borrow(ctx context.Context, itemType string, itemID int64, userName string, days int) (*models.Transaction, error) {
	t, err := r.itemType(itemType)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = r.BorrowDays
	}
	if days <= 0 {
		days = DefaultBorrowDays
	}

	now := r.Now()
	l := &models.Transaction{
		UserName:   userName,
		ItemType:   t.Name,
		ItemID:     itemID,
		BorrowDate: models.FormatDate(now),
		DueDate:    models.FormatDate(now.AddDate(0, 0, days)),
		Status:     models.StatusBorrowed,
	}

	err = r.gw.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Transaction{}).
			Where("item_type = ? AND item_id = ? AND status = ?", t.Name, itemID, string(models.StatusBorrowed)).
			Count(&n).Error; err != nil {
			return &PersistenceError{Op: "borrow", Err: err}
		}
		if n > 0 {
			return ErrAlreadyBorrowed
		}
		if err := tx.Create(l).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyBorrowed
			}
			return &PersistenceError{Op: "borrow", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// 归还：只能还自己名下、仍是 borrowed 的记录
func (r *Repo) ReturnItem(ctx context.Context, transactionID int64, userName string) (*models.Transaction, error) {
	var l models.Transaction
	err := r.gw.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_name = ? AND status = ?", transactionID, userName, string(models.StatusBorrowed)).
			First(&l).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveBorrow
		}
		if err != nil {
			return &PersistenceError{Op: "return", Err: err}
		}

		today := r.today()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", l.ID, string(models.StatusBorrowed)).
			Updates(map[string]any{
				"return_date": today,
				"status":      string(models.StatusReturned),
			})
		if res.Error != nil {
			return &PersistenceError{Op: "return", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return ErrNoActiveBorrow
		}
		l.ReturnDate = &today
		l.Status = models.StatusReturned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) FindTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var l models.Transaction
	if err := r.gw.DB.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// ActiveBorrowCount 某物品当前 borrowed 的记录数（0 或 1）
func (r *Repo) ActiveBorrowCount(ctx context.Context, itemType string, itemID int64) (int64, error) {
	var n int64
	err := r.gw.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("item_type = ? AND item_id = ? AND status = ?", itemType, itemID, string(models.StatusBorrowed)).
		Count(&n).Error
	if err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

var historyTail = []string{"borrow_date", "due_date", "return_date", "status", "user_name"}

// HistoryForUser 借还记录关联到各分类表。activeOnly 时只看 borrowed，
// 并按 |due_date - borrow_date| 升序
func (r *Repo) HistoryForUser(ctx context.Context, userName string, activeOnly bool) (*ResultSet, error) {
	types := r.reg.All()
	unified := UnionColumns(types)

	subs := make([]string, 0, len(types))
	var args []any
	for _, t := range types {
		q := fmt.Sprintf(`SELECT %s, tr.id AS transaction_id, %s,
			tr.borrow_date, tr.due_date, tr.return_date, tr.status, tr.user_name
			FROM %s tr JOIN %s i ON tr.item_id = i.id
			WHERE tr.item_type = ? AND tr.user_name = ?`,
			categoryTag(t), projectColumns(t, "i", unified), models.TransactionTable, quote(t.Table()))
		args = append(args, t.Name, userName)
		if activeOnly {
			q += " AND tr.status = ?"
			args = append(args, string(models.StatusBorrowed))
		}
		subs = append(subs, q)
	}

	query := strings.Join(subs, "\nUNION ALL\n")
	if activeOnly {
		query = fmt.Sprintf("SELECT * FROM (%s) AS h ORDER BY %s ASC, transaction_id ASC",
			query, durationExpr(r.gw.dialect()))
	}

	rs, err := r.gw.FetchAll(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	rs.Columns = append(append([]string{"category", "transaction_id"}, unified...), historyTail...)
	return rs, nil
}

// BorrowedInCategory 当前用户在某分类下、字段匹配关键词的在借物品（还书时用）
func (r *Repo) BorrowedInCategory(ctx context.Context, t *models.ItemType, userName, term string) (*ResultSet, error) {
	t, err := r.itemType(t.Name)
	if err != nil {
		return nil, err
	}
	fields := t.Fields()
	sel := make([]string, len(fields))
	for i, f := range fields {
		sel[i] = column("i", f)
	}
	where, likeArgs := matchAny("i", fields, term)

	q := fmt.Sprintf(`SELECT tr.id AS transaction_id, i.id, %s
		FROM %s tr JOIN %s i ON tr.item_id = i.id
		WHERE tr.user_name = ? AND tr.item_type = ? AND tr.status = ? AND %s`,
		strings.Join(sel, ", "), models.TransactionTable, quote(t.Table()), where)
	args := append([]any{userName, t.Name, string(models.StatusBorrowed)}, likeArgs...)

	rs, err := r.gw.FetchAll(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	rs.Columns = append([]string{"transaction_id", "id"}, fields...)
	return rs, nil
}
