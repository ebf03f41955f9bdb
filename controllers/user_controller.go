package controllers

import (
	"context"
	"errors"
	"log"

	"public_donation_inventory/console"
	"public_donation_inventory/db"
	"public_donation_inventory/models"
	"public_donation_inventory/session"
)

// ErrAuthFailed 注册/登录没成功，整个会话结束
var ErrAuthFailed = errors.New("authentication failed")

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) credentials() (string, string, error) {
	name, err := uc.Con.Prompt(console.Info, "Enter user_name")
	if err != nil {
		return "", "", err
	}
	pw, err := uc.Con.Password("Enter password")
	if err != nil {
		return "", "", err
	}
	return name, pw, nil
}

// Register 成功后直接登录
func (uc *UserController) Register(ctx context.Context) (*session.AppSession, error) {
	name, pw, err := uc.credentials()
	if err != nil {
		return nil, err
	}
	if err := uc.Repo.Register(ctx, name, pw); err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateUser):
			uc.Con.Printf(console.Error, "User '%s' already exist.", name)
		case errors.Is(err, models.ErrValidation):
			uc.Con.Printf(console.Error, "Invalid %v", err)
		default:
			log.Printf("register %q: %v", name, err)
			uc.Con.Printf(console.Error, "Could not register '%s': %v", name, err)
		}
		return nil, ErrAuthFailed
	}
	uc.Con.Printf(console.Success, "User '%s' registered successfully!", name)
	return uc.issueSession(ctx, name)
}

func (uc *UserController) Login(ctx context.Context) (*session.AppSession, error) {
	name, pw, err := uc.credentials()
	if err != nil {
		return nil, err
	}
	if err := uc.Repo.Login(ctx, name, pw); err != nil {
		if !errors.Is(err, db.ErrInvalidCredentials) {
			log.Printf("login %q: %v", name, err)
		}
		uc.Con.Print(console.Error, "Invalid user_name or password.")
		return nil, ErrAuthFailed
	}
	uc.Con.Printf(console.Success, "Welcome back, %s!", name)
	return uc.issueSession(ctx, name)
}

// issueSession 同一用户只保留一个会话，旧的先作废
func (uc *UserController) issueSession(ctx context.Context, name string) (*session.AppSession, error) {
	if err := uc.Sessions.RevokeAllForUser(ctx, name); err != nil {
		log.Printf("revoke sessions for %q: %v", name, err)
	}
	as, err := uc.Sessions.Create(ctx, name)
	if err != nil {
		log.Printf("create session: %v", err)
		uc.Con.Print(console.Error, "Could not start a session.")
		return nil, ErrAuthFailed
	}
	return as, nil
}

func (uc *UserController) Logout(ctx context.Context, as *session.AppSession) error {
	if as != nil {
		if err := uc.Sessions.Delete(ctx, as.ID); err != nil {
			log.Printf("delete session: %v", err)
		}
	}
	uc.Con.Print(console.Success, "Logged out successfully.")
	return nil
}
