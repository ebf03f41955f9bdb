// controllers/items_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"public_donation_inventory/console"
	"public_donation_inventory/db"
	"public_donation_inventory/models"
	"public_donation_inventory/session"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

func fieldPrompt(t *models.ItemType, f models.Field) string {
	switch f.Rule {
	case models.RuleMandatory:
		return fmt.Sprintf("Enter %s of %s(cannot be empty)", f.Name, t.Name)
	case models.RuleOptionalDate:
		return fmt.Sprintf("Enter %s in YYYY-mm-dd format. Eg: 2014-12-14", f.Name)
	default:
		return fmt.Sprintf("Enter %s of %s", f.Name, t.Name)
	}
}

func fieldError(t *models.ItemType, f models.Field) string {
	if f.Rule == models.RuleOptionalDate {
		return "Invalid Date format. Please follow the example given."
	}
	return fmt.Sprintf("Name is compulsory. Please enter the name of %s", t.Name)
}

// readItem 逐个字段提示，校验失败就重新输入该字段
func (ic *ItemController) readItem(t *models.ItemType) (models.Item, error) {
	b := models.NewItemBuilder(t)
	for _, f := range t.Specs() {
		for {
			raw, err := ic.Con.Prompt(console.Info, fieldPrompt(t, f))
			if err != nil {
				return models.Item{}, err
			}
			err = b.Set(f.Name, raw)
			if err == nil {
				break
			}
			if !errors.Is(err, models.ErrValidation) {
				return models.Item{}, err
			}
			ic.Con.Print(console.Error, fieldError(t, f))
		}
	}
	return b.Build()
}

// AddItems 一直循环，直到选择退出
func (ic *ItemController) AddItems(ctx context.Context, as *session.AppSession) error {
	for {
		p, err := ic.chooseCategory("Select item type to add", false)
		if err != nil || p.exit {
			return err
		}
		it, err := ic.readItem(p.t)
		if err != nil {
			return err
		}
		id, err := ic.Repo.AddItem(ctx, it, userOf(as))
		if err != nil {
			log.Printf("add %s: %v", p.t.Name, err)
			ic.Con.Printf(console.Error, "Error adding to inventory: %v", err)
			continue
		}
		ic.Con.Printf(console.Success, "%s (%s) successfully added to inventory. id=%d", it.Name(), p.t.Name, id)
	}
}

// lookup 选分类 + 关键词搜索；unsure 时跨分类搜索
func (ic *ItemController) lookup(ctx context.Context, action string) (pick, *db.ResultSet, error) {
	p, err := ic.chooseCategory("Select item type "+action, true)
	if err != nil || p.exit {
		return p, nil, err
	}
	if p.unsure {
		term, err := ic.Con.Prompt(console.Prompt, "Search by anything you are looking "+action)
		if err != nil {
			return p, nil, err
		}
		rs, err := ic.Repo.SearchAll(ctx, ic.Reg.All(), term)
		rs = ic.readResults("search all", rs, err)
		if rs != nil {
			ic.Con.Print(console.Success, "Search results retrieved successfully!")
		}
		return p, rs, nil
	}
	term, err := ic.Con.Prompt(console.Prompt, fmt.Sprintf("Search by anything for %s you are looking %s", p.t.Name, action))
	if err != nil {
		return p, nil, err
	}
	rs, err := ic.Repo.SearchOne(ctx, p.t, term)
	return p, ic.readResults("search "+p.t.Name, rs, err), nil
}

func (ic *ItemController) Search(ctx context.Context, as *session.AppSession) error {
	p, rs, err := ic.lookup(ctx, "to search")
	if err != nil || p.exit {
		return err
	}
	if rs.Len() == 0 {
		ic.Con.Print(console.Error, "No items found for your search.")
		return nil
	}
	ic.show(rs)

	yes, err := ic.Con.Confirm("Would you like to borrow from these items?")
	if err != nil {
		return err
	}
	if !yes {
		ic.Con.Print(console.Info, "Borrowing cancelled.")
		return nil
	}
	return ic.completeBorrow(ctx, as, p)
}
