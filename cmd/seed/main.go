package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"claimhub/internal/config"
	"claimhub/internal/db"
	"claimhub/internal/model"
	"claimhub/internal/repository"
)

const seedPassword = "ChangeMe123!"

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Claim{}, &model.ClaimEvent{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	users := []model.User{
		{
			Email:      "hr@university.example",
			FirstName:  "Helen",
			LastName:   "Radebe",
			Role:       model.RoleHR,
			Department: "Human Resources",
			HourlyRate: decimal.Zero,
		},
		{
			Email:      "coordinator@university.example",
			FirstName:  "Carl",
			LastName:   "Nkosi",
			Role:       model.RoleCoordinator,
			Department: "Computer Science",
			HourlyRate: decimal.Zero,
		},
		{
			Email:      "lecturer1@university.example",
			FirstName:  "Lerato",
			LastName:   "Mokoena",
			Role:       model.RoleLecturer,
			Department: "Computer Science",
			HourlyRate: decimal.NewFromInt(350),
		},
		{
			Email:      "lecturer2@university.example",
			FirstName:  "James",
			LastName:   "van Wyk",
			Role:       model.RoleLecturer,
			Department: "Mathematics",
			HourlyRate: decimal.NewFromInt(420),
		},
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, user := range users {
		if _, err := userRepo.FindByEmail(ctx, user.Email); err == nil {
			log.Printf("User %s already exists, skipping", user.Email)
			skipped++
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check user %s: %v", user.Email, err)
		}

		user.PasswordHash = string(hashedPassword)
		user.Active = true
		if err := userRepo.Create(ctx, &user); err != nil {
			log.Fatalf("Failed to create user %s: %v", user.Email, err)
		}
		log.Printf("Created %s user: %s", user.Role, user.Email)
		created++
	}

	log.Printf("Seed complete: %d created, %d skipped (password for new users: %s)", created, skipped, seedPassword)
}
