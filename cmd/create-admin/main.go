// Command create-admin seeds or rotates the admin account used by the
// control panel. Credentials come from flags, falling back to the
// ADMIN_USERNAME / ADMIN_EMAIL / ADMIN_PASSWORD environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/festivo/festivo-api/internal/config"
	"github.com/festivo/festivo-api/internal/domain/auth"
	"github.com/festivo/festivo-api/internal/pkg/database"
	"github.com/festivo/festivo-api/internal/pkg/password"
	"github.com/festivo/festivo-api/migrations"
)

func main() {
	cfg := config.Load()

	username := flag.String("username", cfg.AdminUsername, "admin username")
	email := flag.String("email", cfg.AdminEmail, "admin email")
	pass := flag.String("password", cfg.AdminPassword, "admin password")
	rotate := flag.Bool("rotate", false, "update the password if the user already exists")
	flag.Parse()

	if *username == "" || *pass == "" {
		fmt.Fprintln(os.Stderr, "username and password are required (flags or ADMIN_* env)")
		os.Exit(1)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	repo := auth.NewRepository(db)

	existing, err := repo.GetByLogin(ctx, *username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup: %v\n", err)
		os.Exit(1)
	}

	hash, err := password.Hash(*pass)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash: %v\n", err)
		os.Exit(1)
	}

	if existing != nil {
		if !*rotate {
			fmt.Fprintf(os.Stderr, "user %q already exists (use -rotate to update the password)\n", existing.Username)
			os.Exit(1)
		}
		if err := repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			fmt.Fprintf(os.Stderr, "update password: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("password updated for %s\n", existing.Username)
		return
	}

	user := &auth.AdminUser{
		ID:           uuid.New(),
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := repo.Create(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "create: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin user %s created (%s)\n", user.Username, user.ID)
}
