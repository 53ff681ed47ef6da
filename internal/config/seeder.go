package config

import (
	"log"

	"caseflow/internal/adapters/persistence/models"
	"caseflow/internal/core/domain"
	"caseflow/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// defaultUsers is the dev-mode starter set: one account per role.
// Production accounts are created through the register endpoint.
var defaultUsers = []struct {
	username string
	fullName string
	email    string
	role     domain.Role
}{
	{"admin", "System Administrator", "admin@caseflow.local", domain.RoleAdmin},
	{"manager01", "Relationship Manager", "manager01@caseflow.local", domain.RoleManager},
	{"director01", "Approving Director", "director01@caseflow.local", domain.RoleDirector},
	{"creditadmin01", "Credit Administration", "creditadmin01@caseflow.local", domain.RoleCreditAdmin},
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedUsers(); err != nil {
		log.Printf("⚠️ User seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedUsers seeds one default account per role (development only)
func (s *Seeder) seedUsers() error {
	hashedPassword, err := password.Hash("caseflow123")
	if err != nil {
		return err
	}

	for _, u := range defaultUsers {
		var count int64
		s.db.Model(&models.User{}).Where("username = ?", u.username).Count(&count)
		if count > 0 {
			continue
		}

		user := &models.User{
			Username: u.username,
			FullName: u.fullName,
			Email:    u.email,
			Password: hashedPassword,
			Role:     string(u.role),
			IsActive: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded user: %s (%s)", u.username, u.role)
	}

	return nil
}
