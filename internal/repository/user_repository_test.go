package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/task-manager-api/internal/models"
	"github.com/taskhive/task-manager-api/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestConsumePasswordReset_TokenMatches(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	consumed, err := repo.ConsumePasswordReset("somehash", "newbcrypthash", time.Now())
	require.NoError(t, err)
	require.True(t, consumed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumePasswordReset_NoMatchingRow(t *testing.T) {
	repo, mock := setupMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	consumed, err := repo.ConsumePasswordReset("unknownhash", "newbcrypthash", time.Now())
	require.NoError(t, err)
	require.False(t, consumed)
	require.NoError(t, mock.ExpectationsWereMet())
}

// End-to-end against sqlite: only the holder of the live, unexpired
// token hash can consume it, and consumption is single use.
func TestConsumePasswordReset_SingleUse(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	repo := NewUserRepository(db)

	raw, hash, err := utils.GenerateResetToken(32)
	require.NoError(t, err)
	require.NotEqual(t, raw, hash)

	expiresAt := time.Now().Add(15 * time.Minute)
	require.NoError(t, db.Create(&models.User{
		FirstName:              "Reset",
		LastName:               "User",
		Email:                  "reset@x.com",
		PasswordHash:           "oldhash",
		PasswordResetTokenHash: &hash,
		PasswordResetExpiresAt: &expiresAt,
	}).Error)

	consumed, err := repo.ConsumePasswordReset(hash, "newhash", time.Now())
	require.NoError(t, err)
	require.True(t, consumed)

	user, err := repo.FindByEmail("reset@x.com")
	require.NoError(t, err)
	require.Equal(t, "newhash", user.PasswordHash)
	require.Nil(t, user.PasswordResetTokenHash)
	require.Nil(t, user.PasswordResetExpiresAt)
	require.Equal(t, 1, user.TokenVersion)

	consumed, err = repo.ConsumePasswordReset(hash, "anotherhash", time.Now())
	require.NoError(t, err)
	require.False(t, consumed)
}
