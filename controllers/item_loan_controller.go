// controllers/item_loan_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"public_donation_inventory/console"
	"public_donation_inventory/db"
	"public_donation_inventory/session"
)

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil
}

// 借出
func (ic *ItemController) Borrow(ctx context.Context, as *session.AppSession) error {
	p, rs, err := ic.lookup(ctx, "to borrow")
	if err != nil || p.exit {
		return err
	}
	if rs.Len() == 0 {
		ic.Con.Print(console.Error, "No items found for your search.")
		return nil
	}
	ic.show(rs)
	return ic.completeBorrow(ctx, as, p)
}

// completeBorrow 跨分类搜索时还要再问一次分类
func (ic *ItemController) completeBorrow(ctx context.Context, as *session.AppSession, p pick) error {
	t := p.t
	if t == nil {
		name, err := ic.Con.Prompt(console.Prompt, "Please select the category of the item you want to borrow")
		if err != nil {
			return err
		}
		var ok bool
		if t, ok = ic.Reg.ByName(name); !ok {
			ic.Con.Printf(console.Error, "Unknown category '%s'.", strings.TrimSpace(name))
			return nil
		}
	}

	id, err := ic.readID(fmt.Sprintf("Please select the ID of %s you want to borrow (Choose the number listed on the leftmost side)", t.Name), "ID")
	if err != nil {
		return err
	}

	l, err := ic.Repo.Borrow(ctx, t.Name, id, userOf(as), 0)
	switch {
	case errors.Is(err, db.ErrAlreadyBorrowed):
		ic.Con.Print(console.Error, "The item is currently borrowed by another user.")
	case err != nil:
		log.Printf("borrow %s/%d: %v", t.Name, id, err)
		ic.Con.Printf(console.Error, "Error borrowing item: %v", err)
	default:
		ic.Con.Printf(console.Success, "Item borrowed successfully. Due date: %s", l.DueDate)
	}
	return nil
}

// 归还：按分类找自己在借的物品；unsure 时列出全部在借
func (ic *ItemController) Return(ctx context.Context, as *session.AppSession) error {
	p, err := ic.chooseCategory("Select item type to return", true)
	if err != nil || p.exit {
		return err
	}

	var rs *db.ResultSet
	if p.unsure {
		res, err := ic.Repo.HistoryForUser(ctx, userOf(as), true)
		rs = ic.readResults("active borrows", res, err)
	} else {
		term, err := ic.Con.Prompt(console.Prompt, fmt.Sprintf("Search by anything for %s you are looking to return", p.t.Name))
		if err != nil {
			return err
		}
		res, err := ic.Repo.BorrowedInCategory(ctx, p.t, userOf(as), term)
		rs = ic.readResults("borrowed "+p.t.Name, res, err)
		if rs.Len() > 0 {
			ic.Con.Printf(console.Success, "Borrowed items found for %s.", userOf(as))
		}
	}
	if rs.Len() == 0 {
		ic.Con.Print(console.Error, "Nothing has been borrowed to return.")
		return nil
	}
	ic.show(rs)

	id, err := ic.readID("Please select the TransactionId you want to return (Choose the number listed on the leftmost side)", "TransactionId")
	if err != nil {
		return err
	}
	_, err = ic.Repo.ReturnItem(ctx, id, userOf(as))
	switch {
	case errors.Is(err, db.ErrNoActiveBorrow):
		ic.noActiveBorrow(ctx, id, userOf(as))
	case err != nil:
		log.Printf("return %d: %v", id, err)
		ic.Con.Printf(console.Error, "Error returning item: %v", err)
	default:
		ic.Con.Print(console.Success, "Item returned successfully.")
	}
	return nil
}

// noActiveBorrow 自己已经还过的记录给出归还日期，其余情况不区分
func (ic *ItemController) noActiveBorrow(ctx context.Context, id int64, user string) {
	tr, err := ic.Repo.FindTransaction(ctx, id)
	if err == nil && tr.UserName == user && !tr.Active() && tr.ReturnDate != nil {
		ic.Con.Printf(console.Error, "Transaction %d was already returned on %s.", id, *tr.ReturnDate)
		return
	}
	ic.Con.Print(console.Error, "No active borrow found with this transaction ID.")
}
