// models/item_loan.go
package models

import "time"

const TransactionTable = "transactions"

// 日期统一按 YYYY-MM-DD 文本存储
const DateLayout = "2006-01-02"

type TransactionStatus string

const (
	StatusBorrowed TransactionStatus = "borrowed"
	StatusReturned TransactionStatus = "returned"
)

// Transaction 借还记录。ItemType + ItemID 指向某个分类表里的一行（无外键）
type Transaction struct {
	ID         int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserName   string            `gorm:"column:user_name" json:"userName"`
	ItemType   string            `gorm:"column:item_type" json:"itemType"`
	ItemID     int64             `gorm:"column:item_id" json:"itemId"`
	BorrowDate string            `gorm:"column:borrow_date" json:"borrowDate"`
	DueDate    string            `gorm:"column:due_date" json:"dueDate"`
	ReturnDate *string           `gorm:"column:return_date" json:"returnDate,omitempty"`
	Status     TransactionStatus `gorm:"column:status;type:text" json:"status"`
}

func (Transaction) TableName() string { return TransactionTable }

// Active 表示尚未归还
func (t Transaction) Active() bool { return t.Status == StatusBorrowed }

// FormatDate 把时间截成日期文本
func FormatDate(t time.Time) string { return t.Format(DateLayout) }
