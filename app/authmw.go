package app

import (
	"context"
	"errors"

	"public_donation_inventory/session"
)

var ErrUnauthorized = errors.New("unauthorized")

// Handler 登录后的菜单动作
type Handler func(ctx context.Context, as *session.AppSession) error

type Middleware func(Handler) Handler

type sessionKey struct{}

// WithSession 把当前会话 ID 放进 ctx，后续中间件可用
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// AuthRequired 会话不存在或已过期时不执行动作
func AuthRequired(sessions session.Store) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, _ *session.AppSession) error {
			id := SessionID(ctx)
			if id == "" {
				return ErrUnauthorized
			}
			as, err := sessions.Get(ctx, id)
			if errors.Is(err, session.ErrNotFound) {
				return ErrUnauthorized
			}
			if err != nil {
				return err
			}
			return next(ctx, as)
		}
	}
}

// Chain 第一个中间件在最外层
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
