// app/bootstrap.go
package app

import (
	"context"
	"log"

	"public_donation_inventory/db"
)

// Bootstrap 启动时为每个分类建表，已有的表保持不动
func Bootstrap(ctx context.Context, repo *db.Repo) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("[BOOTSTRAP] schema failed: %v", err)
		return err
	}
	log.Printf("[BOOTSTRAP] %d item tables ready", repo.Registry().Len())
	return nil
}
