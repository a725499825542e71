package services

import (
	"testing"
	"time"

	"github.com/chaitanyaB4u/ferries/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Program{},
		&models.Enrollment{},
		&models.Conference{},
		&models.Session{},
		&models.EventMember{},
		&models.Correspondence{},
		&models.MailRecipient{},
		&models.Discussion{},
		&models.Feed{},
		&models.AuditLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, firstName, email, userType string) models.User {
	t.Helper()

	user := models.User{
		FirstName: firstName,
		LastName:  "Test",
		Email:     email,
		UserType:  userType,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProgram(t *testing.T, db *gorm.DB, coach models.User) models.Program {
	t.Helper()

	program := models.Program{
		Name:     "Leadership Intensive",
		CoachID:  coach.ID,
		IsActive: true,
	}
	require.NoError(t, db.Create(&program).Error)
	return program
}

func futureStart() time.Time {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
}
