// Package testutil provides database helpers shared by integration tests.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fremdrift-as/inquiry-api/internal/auth"
	"github.com/fremdrift-as/inquiry-api/internal/database"
	"github.com/fremdrift-as/inquiry-api/internal/domain"
)

// SetupTestDB connects to the test PostgreSQL database and migrates the
// schema. It uses environment variables or falls back to docker-compose
// defaults, and skips the test when no database is reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "inquiry_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "inquiry_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "inquiry_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("test database not reachable: %v", err)
	}
	if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		t.Skip("test database not reachable")
	}

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// SetupCleanTestDB is SetupTestDB plus a wipe of all application tables
func SetupCleanTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := SetupTestDB(t)
	CleanupTestData(t, db)
	return db
}

// CleanupTestData removes test rows from all tables, children first
func CleanupTestData(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{
		"recommendations",
		"inquiry_comments",
		"calendar_events",
		"inquiries",
		"contacts",
		"microsoft_tokens",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error; err != nil {
			t.Logf("Note: could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestUser inserts a verified admin user with a unique email
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword("Passw0rd!")
	require.NoError(t, err)

	user := &domain.User{
		Name:               name,
		Email:              fmt.Sprintf("%s-%d@example.com", sanitize(name), time.Now().UnixNano()),
		PasswordHash:       hash,
		Role:               domain.UserRoleAdmin,
		IsVerified:         true,
		EmailNotifications: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestGuest inserts a user without the admin role
func CreateTestGuest(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()

	user := CreateTestUser(t, db, name)
	user.Role = domain.UserRoleGuest
	require.NoError(t, db.Save(user).Error)
	return user
}

// CreateTestInquiry inserts a minimal inquiry
func CreateTestInquiry(t *testing.T, db *gorm.DB, title string) *domain.Inquiry {
	t.Helper()

	inquiry := &domain.Inquiry{
		CaseNumber:         fmt.Sprintf("test-%d", time.Now().UnixNano()),
		CompanyName:        "Testbedrift AS",
		ProductTitle:       title,
		ProductDescription: "Test description",
		Status:             domain.InquiryStatusUnread,
		Tags:               []string{},
	}
	require.NoError(t, db.Create(inquiry).Error)
	return inquiry
}

// CreateTestContact inserts a directory contact with a unique email
func CreateTestContact(t *testing.T, db *gorm.DB, name, businessName string) *domain.Contact {
	t.Helper()

	contact := &domain.Contact{
		Name:           name,
		Email:          fmt.Sprintf("%s-%d@example.com", sanitize(name), time.Now().UnixNano()),
		BusinessName:   businessName,
		OfficeLocation: "Oslo",
		Responsibility: "Rådgivning",
	}
	require.NoError(t, db.Create(contact).Error)
	return contact
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
