package db

import (
	"context"
	"errors"
	"strings"

	"public_donation_inventory/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户不存在时也做一次比较，耗时和密码错误时接近
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.MinCost)

func (r *Repo) hashPassword(password string) (string, error) {
	cost := r.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

// bcrypt 只接受 72 字节以内的密码
const maxPasswordBytes = 72

// Register 用户名重复时返回 ErrDuplicateUser（靠主键冲突判断）
func (r *Repo) Register(ctx context.Context, userName, password string) error {
	if strings.TrimSpace(userName) == "" {
		return &models.ValidationError{Field: "user_name", Reason: "cannot be empty"}
	}
	if len(password) > maxPasswordBytes {
		return &models.ValidationError{Field: "password", Reason: "at most 72 bytes"}
	}
	hash, err := r.hashPassword(password)
	if err != nil {
		return err
	}
	acc := &models.Account{UserName: userName, Password: hash}
	if err := r.gw.DB.WithContext(ctx).Create(acc).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return &PersistenceError{Op: "register", Err: err}
	}
	return nil
}

// Verify 用户不存在和密码错误都只返回 false
func (r *Repo) Verify(ctx context.Context, userName, password string) (bool, error) {
	var acc models.Account
	err := r.gw.DB.WithContext(ctx).Where("user_name = ?", userName).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Op: "verify", Err: err}
	}
	return bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)) == nil, nil
}

func (r *Repo) Login(ctx context.Context, userName, password string) error {
	ok, err := r.Verify(ctx, userName, password)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}
