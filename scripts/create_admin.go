// Creates the first administrator account.
//
// Usage: go run scripts/create_admin.go -username admin -email admin@example.com -password secret123

package main

import (
	"context"
	"flag"
	"log"
	"sensen_backend/internal/config"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/internal/service"
	"sensen_backend/pkg/database"
	"sensen_backend/pkg/logger"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin e-mail")
	password := flag.String("password", "", "admin password (at least 8 characters)")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepository(db))
	user, err := users.CreateUser(context.Background(), service.CreateUserRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
		Role:     model.Admin,
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin %q created (id %d)", user.Username, user.ID)
}
