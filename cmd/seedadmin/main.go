// Command seedadmin creates or updates a back-office admin account.
//
// Usage:
//
//	seedadmin <email> <password>
//
// Connection settings come from the environment (.env is loaded if
// present): MONGODB_URI and MONGODB_DB.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"furnish-must/internal/config"
	"furnish-must/internal/database"
	"furnish-must/internal/repository"
	"furnish-must/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: seedadmin <email> <password>")
		os.Exit(1)
	}
	email, password := os.Args[1], os.Args[2]

	// Best effort: a missing .env just means the environment is already set.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.Mongo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(ctx)

	adminRepo := repository.NewAdminRepository(db.DB())
	admins := service.NewAdminService(adminRepo, cfg.Session.Secret, cfg.Session.TTL)

	if err := admins.SetPassword(ctx, email, password); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin %s ready\n", email)
}
