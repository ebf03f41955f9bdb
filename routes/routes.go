package routes

import (
	"context"
	"errors"
	"log"

	"public_donation_inventory/app"
	"public_donation_inventory/console"
	"public_donation_inventory/controllers"
	"public_donation_inventory/session"
)

// Entry 一个编号菜单项
type Entry struct {
	Label string
	Run   app.Handler
}

// Menus 登录前后的全部菜单
type Menus struct {
	con    *console.Console
	users  *controllers.UserController
	authed []Entry
}

func RegisterRoutes(a *app.App, con *console.Console) *Menus {
	// 控制器与依赖
	s := controllers.GetSrv(a, con)
	uc := controllers.GetUserController(s)
	itemCtl := controllers.NewItemController(s)
	invCtl := controllers.NewInventoryController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Sessions)
	seenMW := app.TouchSession(a.Sessions)
	guard := func(h app.Handler) app.Handler { return app.Chain(h, authMW, seenMW) }

	return &Menus{
		con:   con,
		users: uc,
		authed: []Entry{
			{"Add Items", guard(itemCtl.AddItems)},
			{"Search Items", guard(itemCtl.Search)},
			{"Borrow Items", guard(itemCtl.Borrow)},
			{"Return Items", guard(itemCtl.Return)},
			{"Personal Inventory", guard(invCtl.Personal)},
			{"Log out", guard(uc.Logout)},
		},
	}
}

// Run 顶层菜单：注册 / 登录 / 退出。输入结束时正常返回
func (m *Menus) Run(ctx context.Context) error {
	m.con.Print(console.Prompt, "\nWELCOME TO PUBLIC DONATION SYSTEM\n")

	var choice int
	for {
		m.con.Print(console.Info, "1. Register\n2. Login\n3. Exit")
		c, err := m.con.Choice("From the options, select your choice (number)")
		if err != nil {
			return ignoreClosed(err)
		}
		if c >= 1 && c <= 3 {
			choice = c
			break
		}
		m.con.Print(console.Error, "\nInvalid Number. Choose only the numbers given!!\n")
	}

	var (
		as  *session.AppSession
		err error
	)
	switch choice {
	case 1:
		as, err = m.users.Register(ctx)
		if errors.Is(err, controllers.ErrAuthFailed) {
			m.con.Print(console.Error, "Error during registration. Exiting...")
			return nil
		}
	case 2:
		as, err = m.users.Login(ctx)
		if errors.Is(err, controllers.ErrAuthFailed) {
			m.con.Print(console.Error, "Login failed. Exiting...")
			return nil
		}
	default:
		m.con.Print(console.Success, "Goodbye!")
		return nil
	}
	if err != nil {
		return ignoreClosed(err)
	}
	return ignoreClosed(m.loop(app.WithSession(ctx, as.ID)))
}

// loop 登录后的菜单，登出或会话失效时结束
func (m *Menus) loop(ctx context.Context) error {
	logout := len(m.authed)
	for {
		m.con.Print(console.Prompt, "\nChoose action\n")
		for i, e := range m.authed {
			m.con.Printf(console.Info, "%d. %s", i+1, e.Label)
		}
		c, err := m.con.Choice("Enter your choice (number)")
		if err != nil {
			return err
		}
		if c < 1 || c > len(m.authed) {
			m.con.Print(console.Error, "Invalid choice. Please try again!")
			continue
		}

		err = m.authed[c-1].Run(ctx, nil)
		switch {
		case errors.Is(err, app.ErrUnauthorized):
			m.con.Print(console.Error, "Session expired. Please log in again.")
			return nil
		case errors.Is(err, console.ErrClosed):
			return err
		case err != nil:
			log.Printf("menu %q: %v", m.authed[c-1].Label, err)
		}
		if c == logout {
			return nil
		}
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, console.ErrClosed) {
		return nil
	}
	return err
}
