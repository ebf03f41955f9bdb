package controllers

import (
	"context"

	"public_donation_inventory/console"
	"public_donation_inventory/session"
)

type InventoryController struct{ *Srv }

func NewInventoryController(s *Srv) *InventoryController { return &InventoryController{Srv: s} }

// Personal 个人库存子菜单
func (vc *InventoryController) Personal(ctx context.Context, as *session.AppSession) error {
	vc.Con.Print(console.Info, "\nWhat do you want to do?\n"+
		"1. View items you have contributed.\n"+
		"2. View items you have borrowed so far.\n"+
		"3. View items you are currently borrowing.")
	choice, err := vc.Con.Choice("Enter your choice (number)")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		vc.Contributed(ctx, as)
	case 2:
		vc.History(ctx, as, false)
	case 3:
		vc.History(ctx, as, true)
	default:
		vc.Con.Print(console.Error, "Invalid choice. Please try again!")
	}
	return nil
}

func (vc *InventoryController) Contributed(ctx context.Context, as *session.AppSession) {
	rs, err := vc.Repo.ItemsAddedBy(ctx, userOf(as))
	if rs = vc.readResults("items added", rs, err); rs.Len() == 0 {
		vc.Con.Print(console.Prompt, "Nothing has been contributed.")
		return
	}
	vc.show(rs)
}

func (vc *InventoryController) History(ctx context.Context, as *session.AppSession, activeOnly bool) {
	rs, err := vc.Repo.HistoryForUser(ctx, userOf(as), activeOnly)
	if rs = vc.readResults("history", rs, err); rs.Len() == 0 {
		if activeOnly {
			vc.Con.Print(console.Prompt, "No active borrowed items found.")
		} else {
			vc.Con.Print(console.Prompt, "No transaction history so far.")
		}
		return
	}
	vc.show(rs)
}
