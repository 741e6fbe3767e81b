package service

import (
	"testing"
	"time"

	"carhub/config"
	"carhub/internal/database"
	"carhub/internal/domain"
	"carhub/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
			Issuer:        "carhub-test",
		},
	}
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(cfg, userRepo), userRepo
}

func TestRegister_CreatesUserWithTokens(t *testing.T) {
	svc, _ := newAuthService(t)

	u, access, refresh, err := svc.Register("Jane", "Doe", "jane@example.com", "secret123", "", domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Empty(t, u.GoogleID)
}

func TestRegister_CannotSelfAssignAdmin(t *testing.T) {
	svc, _ := newAuthService(t)

	u, _, _, err := svc.Register("Eve", "Admin", "eve@example.com", "secret123", "", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Register("Jane", "Doe", "jane@example.com", "secret123", "", domain.RoleUser)
	require.NoError(t, err)
	_, _, _, err = svc.Register("John", "Doe", "jane@example.com", "other456", "", domain.RoleUser)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin_WrongPasswordAndInactiveAccount(t *testing.T) {
	svc, users := newAuthService(t)

	u, _, _, err := svc.Register("Jane", "Doe", "jane@example.com", "secret123", "", domain.RoleUser)
	require.NoError(t, err)

	_, _, _, err = svc.Login("jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	got, _, _, err := svc.Login("jane@example.com", "secret123")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)

	u.IsActive = false
	require.NoError(t, users.Update(u))
	_, _, _, err = svc.Login("jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLoginWithGoogle_LinksExistingEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	u, _, _, err := svc.Register("Jane", "Doe", "jane@example.com", "secret123", "", domain.RoleUser)
	require.NoError(t, err)

	linked, _, _, isNew, err := svc.LoginWithGoogle("google-123", "jane@example.com", "Jane", "Doe", "")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, u.ID, linked.ID)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "google-123", *linked.GoogleID)

	// Subsequent sign-ins resolve by Google ID.
	again, _, _, isNew, err := svc.LoginWithGoogle("google-123", "jane@example.com", "Jane", "Doe", "")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, u.ID, again.ID)
}

func TestLoginWithGoogle_CreatesNewUser(t *testing.T) {
	svc, _ := newAuthService(t)

	u, _, _, isNew, err := svc.LoginWithGoogle("google-456", "new@example.com", "New", "Person", "https://example.com/a.png")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, "google", u.AuthProvider)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)

	u, _, _, err := svc.Register("Jane", "Doe", "jane@example.com", "secret123", "", domain.RoleUser)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(u.ID, "wrong", "next456"), ErrInvalidCreds)
	require.NoError(t, svc.ChangePassword(u.ID, "secret123", "next456"))

	_, _, _, err = svc.Login("jane@example.com", "next456")
	assert.NoError(t, err)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, refresh, err := svc.Register("Jane", "Doe", "jane@example.com", "secret123", "", domain.RoleUser)
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)

	_, _, err = svc.RefreshToken("not-a-token")
	assert.Error(t, err)
}
