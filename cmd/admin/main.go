package main

import (
	"flag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/models"
)

// Bootstraps the first admin account so the API has someone who can
// create everybody else.
func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	email := flag.String("email", "", "admin email")
	name := flag.String("name", "", "admin display name")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		logger.Error.Fatalln("email, name and password are all required")
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	st, err := app.NewStore(config.Database.DSN)
	if err != nil {
		logger.Error.Fatalf("Failed to init store: %v", err)
	}
	defer st.Close()

	if err := st.ApplyMigrations(config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	existing, err := st.GetAccountByEmail(*email)
	if err != nil {
		logger.Error.Fatalf("Failed to check for existing account: %v", err)
	}
	if existing != nil {
		logger.Error.Fatalf("Account with email %s already exists", *email)
	}

	account := models.Account{
		Email: *email,
		Name:  *name,
		Role:  models.RoleAdmin,
	}
	if err := app.SetPassword(&account, *password); err != nil {
		logger.Error.Fatalf("Failed to hash password: %v", err)
	}
	if err := account.Validate(); err != nil {
		logger.Error.Fatalf("Invalid account: %v", err)
	}

	if err := st.CreateAccount(&account); err != nil {
		logger.Error.Fatalf("Failed to create account: %v", err)
	}

	logger.Info.Printf("Created admin account %s (%s)", account.Email, account.ID)
}
