package service

import (
	"context"
	"testing"

	"tavern/internal/models"
	"tavern/internal/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(db, repository.NewUserRepository(db))
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateProfile_OnlyPresentFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, models.User{
		Username:    "mallory",
		Email:       "mallory@example.com",
		Location:    "Old Town",
		Website:     "https://old.example.com",
		AvatarColor: "#111111",
	}, "password123")

	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UID:      user.UID,
		Location: strPtr("New Town"),
		DobDay:   intPtr(12),
	})
	assert.NoError(t, err)
	assert.Equal(t, "New Town", updated.Location)
	assert.Equal(t, 12, updated.DobDay)
	// Absent fields untouched.
	assert.Equal(t, "https://old.example.com", updated.Website)
	assert.Equal(t, "#111111", updated.AvatarColor)
}

func TestUpdateProfile_ClearsFieldWithEmptyString(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, models.User{
		Username: "nancy",
		Email:    "nancy@example.com",
		About:    "something",
	}, "password123")

	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UID:   user.UID,
		About: strPtr(""),
	})
	assert.NoError(t, err)
	assert.Equal(t, "", updated.About)
}

func TestUpdateProfile_NoFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, models.User{Username: "oscar", Email: "oscar@example.com"}, "password123")

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UID: user.UID})
	assert.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UID:      9999,
		Location: strPtr("Nowhere"),
	})
	assert.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
}

func TestGetUser_Permissions(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	admin := seedUser(t, db, models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}, "password123")
	mod := seedUser(t, db, models.User{Username: "modly", Email: "modly@example.com", Role: models.RoleModerator}, "password123")
	plain := seedUser(t, db, models.User{Username: "plain", Email: "plain@example.com", CanDeleteShouts: true}, "password123")

	got, err := svc.GetUser(context.Background(), admin.UID)
	assert.NoError(t, err)
	assert.Equal(t, models.UserPermissions{CanMute: true, CanBan: true, CanDeleteShouts: true}, got.Permissions)

	got, err = svc.GetUser(context.Background(), mod.UID)
	assert.NoError(t, err)
	assert.Equal(t, models.UserPermissions{CanMute: true, CanBan: false, CanDeleteShouts: true}, got.Permissions)

	got, err = svc.GetUser(context.Background(), plain.UID)
	assert.NoError(t, err)
	assert.Equal(t, models.UserPermissions{CanMute: false, CanBan: false, CanDeleteShouts: true}, got.Permissions)
}

func TestLogIP_Upsert(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, models.User{Username: "roamer", Email: "roamer@example.com"}, "password123")

	assert.NoError(t, svc.LogIP(context.Background(), LogIPInput{UID: user.UID, IPAddress: "10.0.0.1"}))
	assert.NoError(t, svc.LogIP(context.Background(), LogIPInput{UID: user.UID, IPAddress: "10.0.0.1"}))
	assert.NoError(t, svc.LogIP(context.Background(), LogIPInput{UID: user.UID, IPAddress: "10.0.0.2"}))

	var logs []models.IPLog
	assert.NoError(t, db.Where("uid = ?", user.UID).Order("ip_address").Find(&logs).Error)
	if assert.Len(t, logs, 2) {
		assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
		assert.Equal(t, 2, logs[0].Count)
		assert.Equal(t, "10.0.0.2", logs[1].IPAddress)
		assert.Equal(t, 1, logs[1].Count)
	}
}

func TestLogIP_MissingInput(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	err := svc.LogIP(context.Background(), LogIPInput{UID: 0, IPAddress: "10.0.0.1"})
	assert.Error(t, err)
	err = svc.LogIP(context.Background(), LogIPInput{UID: 1, IPAddress: ""})
	assert.Error(t, err)
}
