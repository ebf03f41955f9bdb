// app/seenmw.go
package app

import (
	"context"
	"log"

	"public_donation_inventory/session"
)

// TouchSession 每次菜单动作都续期会话；放在 AuthRequired 之后
func TouchSession(sessions session.Store) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, as *session.AppSession) error {
			if as != nil {
				if err := sessions.Touch(ctx, as.ID); err != nil {
					log.Printf("touch session: %v", err) // 不阻塞动作
				}
			}
			return next(ctx, as)
		}
	}
}
