package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/lakeshorecc/classreg-backend/internal/config"
	"github.com/lakeshorecc/classreg-backend/internal/database"
	"github.com/lakeshorecc/classreg-backend/internal/logger"
	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	registrantRepo := repository.NewRegistrantRepository(pool)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Staff Member ===")

	fmt.Print("Enter First Name: ")
	firstName, _ := reader.ReadString('\n')
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		fmt.Println("Error: First name is required")
		return
	}

	fmt.Print("Enter Last Name: ")
	lastName, _ := reader.ReadString('\n')
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		fmt.Println("Error: Last name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Birthday (YYYY-MM-DD): ")
	birthdayStr, _ := reader.ReadString('\n')
	birthday, err := time.Parse("2006-01-02", strings.TrimSpace(birthdayStr))
	if err != nil {
		fmt.Println("Error: Birthday must be YYYY-MM-DD")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	staff := &model.Member{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Birthday:     birthday,
		IsStaff:      true,
	}

	if err := registrantRepo.CreateMember(ctx, staff); err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff member")
	}

	fmt.Printf("\nSuccess! Staff member '%s %s' (%s) created with ID: %d\n",
		staff.FirstName, staff.LastName, staff.Email, staff.ID)
}
