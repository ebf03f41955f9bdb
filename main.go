package main

import (
	"context"
	"log"

	"public_donation_inventory/app"
	"public_donation_inventory/config"
	"public_donation_inventory/console"
	"public_donation_inventory/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	ctx := context.Background()
	if err := app.Bootstrap(ctx, application.Repo); err != nil {
		log.Printf("bootstrap: %v", err)
		return
	}

	menus := routes.RegisterRoutes(application, console.Std())
	if err := menus.Run(ctx); err != nil {
		log.Printf("exit: %v", err)
	}
}
