package main

import (
	"flag"
	"log"

	"github.com/adinaninacerdine/sgg-project/internal/model"
	"github.com/adinaninacerdine/sgg-project/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Ops tool: resets one account's password and reactivates it, for when the
// administrator locks themselves out.
func main() {
	email := flag.String("email", "admin@sgg.gov", "account email to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()
	defer database.Close(db)

	var user model.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("User %s not found in database: %v", *email, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	updates := map[string]interface{}{
		"password":  string(hashedPassword),
		"is_active": true,
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
