// controllers/srv.go
package controllers

import (
	"log"

	"public_donation_inventory/app"
	"public_donation_inventory/console"
	"public_donation_inventory/db"
	"public_donation_inventory/models"
	"public_donation_inventory/session"
)

type Srv struct {
	Repo     *db.Repo
	Reg      *models.Registry
	Sessions session.Store
	Con      *console.Console
}

func GetSrv(a *app.App, con *console.Console) *Srv {
	return &Srv{Repo: a.Repo, Reg: a.Registry, Sessions: a.Sessions, Con: con}
}

// --- helpers ---

// pick 分类菜单的选择结果
type pick struct {
	t      *models.ItemType // nil 表示 unsure
	unsure bool
	exit   bool
}

func (s *Srv) printItemTypes() {
	s.Con.Print(console.Prompt, "Available Item Types")
	for _, t := range s.Reg.All() {
		s.Con.Printf(console.Info, "%d. %s", t.Key, t.Label())
	}
}

// chooseCategory N+1 是 unsure（withUnsure 时），最后一项是退出
func (s *Srv) chooseCategory(title string, withUnsure bool) (pick, error) {
	n := s.Reg.Len()
	unsureOpt, exitOpt := -1, n+1
	if withUnsure {
		unsureOpt, exitOpt = n+1, n+2
	}
	for {
		s.Con.Print(console.Prompt, "\n"+title)
		s.printItemTypes()
		if withUnsure {
			s.Con.Printf(console.Info, "%d. Unsure about the category", unsureOpt)
		}
		s.Con.Printf(console.Info, "%d. Exit", exitOpt)

		choice, err := s.Con.Choice("Enter your choice (number)")
		if err != nil {
			return pick{}, err
		}
		switch {
		case choice == exitOpt:
			s.Con.Print(console.Success, "Returning to the main menu...")
			return pick{exit: true}, nil
		case choice == unsureOpt:
			return pick{unsure: true}, nil
		}
		if t, ok := s.Reg.Lookup(choice); ok {
			return pick{t: t}, nil
		}
		s.Con.Print(console.Error, "Invalid item type selected. Try again!")
	}
}

// readResults 读失败只记日志，对用户按“没有结果”处理
func (s *Srv) readResults(op string, rs *db.ResultSet, err error) *db.ResultSet {
	if err != nil {
		log.Printf("%s: %v", op, err)
		return nil
	}
	return rs
}

func (s *Srv) show(rs *db.ResultSet) {
	s.Con.Table(rs.Columns, rs.Strings())
}

// readID 非数字时重新输入
func (s *Srv) readID(msg, label string) (int64, error) {
	for {
		raw, err := s.Con.Prompt(console.Prompt, msg)
		if err != nil {
			return 0, err
		}
		id, ok := parseID(raw)
		if ok {
			return id, nil
		}
		s.Con.Printf(console.Error, "Invalid input! Please re-enter a valid %s.", label)
	}
}

func userOf(as *session.AppSession) string {
	if as == nil {
		return ""
	}
	return as.UserName
}
