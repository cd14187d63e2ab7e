package main

import (
	"fmt"
	"os"

	"courier-booking/config"
	"courier-booking/database"
	"courier-booking/database/seeders"
	"courier-booking/services/auth"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migrate migrate                      - Run migrations")
	fmt.Println("  go run ./cmd/migrate status                       - Show which tables exist")
	fmt.Println("  go run ./cmd/migrate seed-admin email password    - Create or promote an admin")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		fmt.Printf("❌ Database connection failed: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	case "status":
		report, err := database.Status(db)
		if err != nil {
			fmt.Printf("❌ Status check failed: %v\n", err)
			os.Exit(1)
		}
		for _, row := range report {
			mark := "✅"
			if !row.Present {
				mark = "❌"
			}
			fmt.Printf("%s %-28s %s\n", mark, row.Table, row.Model)
		}

	case "seed-admin":
		if len(os.Args) < 4 {
			fmt.Println("Please provide the admin email and password")
			fmt.Println("Example: go run ./cmd/migrate seed-admin ops@example.com s3cret-pass")
			return
		}
		hasher := auth.NewPasswordHasher(auth.DefaultHashParams)
		admin, err := seeders.SeedAdmin(db, hasher, os.Args[2], os.Args[3])
		if err != nil {
			fmt.Printf("❌ Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Admin ready: %s (%s)\n", admin.Email, admin.Uuid)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
	}
}
