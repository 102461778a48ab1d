package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lakeshorecc/classreg-backend/internal/config"
	"github.com/lakeshorecc/classreg-backend/internal/database"
	"github.com/lakeshorecc/classreg-backend/internal/logger"
	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// Seeds a demo dataset: one staff member, two members, one non-member, a
// family with a dependent, and a handful of open classes. Intended for
// local development against a fresh database.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	registrantRepo := repository.NewRegistrantRepository(pool)
	familyRepo := repository.NewFamilyRepository(pool)
	classRepo := repository.NewClassRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash seed password")
	}

	fmt.Println("=== Seeding demo accounts ===")

	staff := &model.Member{
		FirstName: "Dana", LastName: "Whitfield",
		Email:        "staff@lakeshorecc.example",
		PasswordHash: string(hash),
		Birthday:     mustDate("1985-04-12"),
		IsStaff:      true,
	}
	owner := &model.Member{
		FirstName: "Alex", LastName: "Morgan",
		Email:        "alex@lakeshorecc.example",
		PasswordHash: string(hash),
		Birthday:     mustDate("1990-09-03"),
	}
	partner := &model.Member{
		FirstName: "Jamie", LastName: "Morgan",
		Email:        "jamie@lakeshorecc.example",
		PasswordHash: string(hash),
		Birthday:     mustDate("1992-01-20"),
	}
	for _, m := range []*model.Member{staff, owner, partner} {
		if err := registrantRepo.CreateMember(ctx, m); err != nil {
			log.Fatal().Err(err).Str("email", m.Email).Msg("Failed to create member")
		}
		fmt.Printf("member %s created with ID %d\n", m.Email, m.ID)
	}

	guest := &model.NonMember{
		FirstName: "Sam", LastName: "Okafor",
		Email:        "sam@lakeshorecc.example",
		PasswordHash: string(hash),
		Birthday:     mustDate("1988-06-30"),
	}
	if err := registrantRepo.CreateNonMember(ctx, guest); err != nil {
		log.Fatal().Err(err).Msg("Failed to create non-member")
	}
	fmt.Printf("non-member %s created with ID %d\n", guest.Email, guest.ID)

	fmt.Println("=== Seeding family ===")

	family, err := familyRepo.Create(ctx, owner.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create family")
	}
	if err := familyRepo.AddMember(ctx, family.ID, partner.ID); err != nil {
		log.Fatal().Err(err).Msg("Failed to link family member")
	}
	dep := &model.Dependent{
		FamilyID:  family.ID,
		FirstName: "Riley", LastName: "Morgan",
		Birthday: mustDate("2015-03-14"),
	}
	if err := familyRepo.AddDependent(ctx, dep); err != nil {
		log.Fatal().Err(err).Msg("Failed to create dependent")
	}
	fmt.Printf("family %d seeded with dependent %d\n", family.ID, dep.ID)

	fmt.Println("=== Seeding classes ===")

	today := time.Now().Truncate(24 * time.Hour)
	seedClasses := []*model.Class{
		{
			Name:        "Morning Lap Swim",
			Description: "Structured lap swimming for all levels.",
			RoomNumber:  1,
			StartDate:   today.AddDate(0, 0, 7),
			EndDate:     today.AddDate(0, 3, 0),
			Days:        schedule.WeekdaySetOf(time.Monday, time.Wednesday, time.Friday),
			StartTime:   mustTime("06:30"),
			EndTime:     mustTime("07:30"),
			MaxCapacity: 20, MemberPrice: 0, NonMemberPrice: 45,
			StaffID: staff.ID,
		},
		{
			Name:        "Youth Basketball",
			Description: "Fundamentals and scrimmage for ages 8 to 14.",
			RoomNumber:  2,
			StartDate:   today.AddDate(0, 0, 7),
			EndDate:     today.AddDate(0, 2, 0),
			Days:        schedule.WeekdaySetOf(time.Tuesday, time.Thursday),
			StartTime:   mustTime("16:00"),
			EndTime:     mustTime("17:30"),
			MaxCapacity: 16, MemberPrice: 25, NonMemberPrice: 60,
			StaffID: staff.ID,
		},
		{
			Name:        "Evening Yoga",
			Description: "Vinyasa flow, mats provided.",
			RoomNumber:  3,
			StartDate:   today.AddDate(0, 0, 14),
			EndDate:     today.AddDate(0, 3, 0),
			Days:        schedule.WeekdaySetOf(time.Monday, time.Wednesday),
			StartTime:   mustTime("18:00"),
			EndTime:     mustTime("19:00"),
			MaxCapacity: 12, MemberPrice: 30, NonMemberPrice: 70,
			StaffID: staff.ID,
		},
	}
	for _, c := range seedClasses {
		if err := classRepo.Create(ctx, c); err != nil {
			log.Fatal().Err(err).Str("name", c.Name).Msg("Failed to create class")
		}
		fmt.Printf("class %q created with ID %d\n", c.Name, c.ID)
	}

	fmt.Println("Done.")
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustTime(s string) schedule.TimeOfDay {
	t, err := schedule.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}
