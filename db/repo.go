package db

import (
	"context"
	"time"

	"public_donation_inventory/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultBorrowDays = 7

// Repo 账户、物品、借还、跨分类查询都挂在这里
type Repo struct {
	gw  *Gateway
	reg *models.Registry

	// Now 可替换，测试里固定日期
	Now        func() time.Time
	BorrowDays int
	HashCost   int
}

func NewRepo(db *gorm.DB, reg *models.Registry) *Repo {
	return &Repo{
		gw:         NewGateway(db),
		reg:        reg,
		Now:        time.Now,
		BorrowDays: DefaultBorrowDays,
		HashCost:   bcrypt.DefaultCost,
	}
}

func (r *Repo) Gateway() *Gateway          { return r.gw }
func (r *Repo) Registry() *models.Registry { return r.reg }

func (r *Repo) today() string { return models.FormatDate(r.Now()) }

// EnsureSchema 为每个分类建表（已存在则跳过）
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, t := range r.reg.All() {
		if err := r.gw.CreateTable(ctx, t.Table(), t.Fields()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) itemType(name string) (*models.ItemType, error) {
	t, ok := r.reg.ByName(name)
	if !ok {
		return nil, ErrUnknownCategory
	}
	return t, nil
}
