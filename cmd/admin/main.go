// Package main provides admin management utilities for Recipebox.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/models"
	"recipebox/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: go run ./cmd/admin %s <email>\n", command)
			os.Exit(1)
		}
		role := models.RoleAdmin
		if command == "demote" {
			role = models.RoleCreator
		}
		setRole(ctx, users, os.Args[2], role)

	case "list-admins":
		listAdmins(ctx, users)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <email>   - Promote user to admin")
	fmt.Println("  go run ./cmd/admin demote <email>    - Demote admin to creator")
	fmt.Println("  go run ./cmd/admin list-admins       - List all admins")
}

func setRole(ctx context.Context, users repository.UserRepository, email, role string) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := users.SetRole(ctx, email, role)
	if err != nil {
		if models.AsAppError(err).Code == models.CodeNotFound {
			fmt.Printf("User with email %s not found\n", email)
			os.Exit(1)
		}
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("User %s (ID: %d) now has role %s\n", user.Email, user.ID, user.Role)
}

func listAdmins(ctx context.Context, users repository.UserRepository) {
	admins, err := users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Printf("Found %d admin(s):\n", len(admins))
	for _, admin := range admins {
		fmt.Printf("  - %s <%s> (ID: %d)\n", admin.DisplayName(), admin.Email, admin.ID)
	}
}
