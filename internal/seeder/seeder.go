package seeders

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cradoe/gopass"
	"github.com/cradoe/memberreg/internal/models"
	"github.com/cradoe/memberreg/internal/repository"
)

// sampleMembers is how many demo members a fresh database gets
const sampleMembers = 11

type Seeder struct {
	DB     repository.Database
	Logger *slog.Logger
}

func New(DB repository.Database, logger *slog.Logger) *Seeder {
	return &Seeder{
		DB:     DB,
		Logger: logger,
	}
}

// Run creates the first admin account and a set of sample members.
// Both steps skip themselves when the data is already there, so running it twice is harmless.
func (seeder *Seeder) Run(adminName, adminEmail, adminPassword string) error {
	if err := seeder.seedAdmin(adminName, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if err := seeder.seedMembers(); err != nil {
		return fmt.Errorf("seed members: %w", err)
	}

	return nil
}

func (seeder *Seeder) seedAdmin(name, email, password string) error {
	_, found, err := seeder.DB.Admin().GetByEmail(email)
	if err != nil {
		return err
	}
	if found {
		seeder.Logger.Info("admin already exists, skipping", "email", email)
		return nil
	}

	hashedPassword, err := gopass.Hash(password)
	if err != nil {
		return err
	}

	id, err := seeder.DB.Admin().Insert(&models.Admin{
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		return err
	}

	seeder.Logger.Info("admin created", "id", id, "email", email)
	return nil
}

func (seeder *Seeder) seedMembers() error {
	_, total, err := seeder.DB.Member().GetAll(models.MemberFilter{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		seeder.Logger.Info("members already present, skipping", "total", total)
		return nil
	}

	now := time.Now().UTC()
	tenYearsAgo := models.NewDate(now.Year()-10, now.Month(), now.Day())

	for i := 1; i <= sampleMembers; i++ {
		n := strconv.Itoa(i)

		person := &models.Person{
			NationalID:     "nationalId" + n,
			IDType:         models.IDTypePassport,
			FirstName:      "FName " + n,
			MiddleName:     "MName " + n,
			LastName:       "PSurname " + n,
			Gender:         models.GenderFemale,
			Birthday:       models.NewDate(now.Year()-30-i, now.Month(), 1),
			SpouseFullname: "SFullname " + n,
			SpouseBirthday: models.NewDate(now.Year()-32-i, now.Month(), 1),
			Email:          "member" + n + "@example.com",
			Telephone:      "123-456-789" + n,
			Residence:      "Residence " + n,
			Condition:      "Condition" + n,
		}

		if i%2 == 0 {
			person.IDType = models.IDTypeGhCard
			person.Gender = models.GenderMale
			person.Underlying = true
			person.Declaration = true
		}

		// two children and two parents each
		for j := 1; j <= 2; j++ {
			person.Children = append(person.Children, models.Child{
				FullName: fmt.Sprintf("CFullName%d-%d", i, j),
				Birthday: tenYearsAgo,
			})
		}
		person.Parents = []models.Parent{
			{FullName: "PFullName" + n + "-1", Birthday: models.NewDate(now.Year()-60-i, time.January, 1), Relationship: models.RelationshipFather},
			{FullName: "PFullName" + n + "-2", Birthday: models.NewDate(now.Year()-58-i, time.January, 1), Relationship: models.RelationshipInlaw},
		}

		if _, err := seeder.DB.Member().Insert(person); err != nil {
			return err
		}
	}

	seeder.Logger.Info("sample members created", "count", sampleMembers)
	return nil
}
