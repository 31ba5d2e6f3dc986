package server

import (
	"fmt"
	"net/http"
	"testing"

	"tavern/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAdminGate(t *testing.T) {
	s, app, db := setupTestServer(t)
	admin := createUser(t, db, models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}, "password123")
	mod := createUser(t, db, models.User{Username: "modly", Email: "modly@example.com", Role: models.RoleModerator}, "password123")

	t.Run("no credential is 401", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/admin/users", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("moderator is 403", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", bearerFor(t, s, mod))
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin passes", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", bearerFor(t, s, admin))
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var users []models.AdminUser
		decodeBody(t, resp, &users)
		assert.Len(t, users, 2)
	})

	t.Run("revoked role takes effect on the next call", func(t *testing.T) {
		demoted := createUser(t, db, models.User{Username: "former", Email: "former@example.com", Role: models.RoleAdmin}, "password123")
		token := bearerFor(t, s, demoted)

		req := jsonRequest(t, http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", token)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		assert.NoError(t, db.Model(&models.User{}).Where("uid = ?", demoted.UID).
			Update("role", models.RoleUser).Error)

		req = jsonRequest(t, http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", token)
		resp, err = app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAdminUpdateUserEndpoint(t *testing.T) {
	s, app, db := setupTestServer(t)
	admin := createUser(t, db, models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}, "password123")
	target := createUser(t, db, models.User{Username: "target", Email: "target@example.com"}, "password123")

	t.Run("missing permissions is 400", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", target.UID), map[string]any{
			"role": models.RoleUser,
		})
		req.Header.Set("Authorization", bearerFor(t, s, admin))
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bans the target", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", target.UID), map[string]any{
			"role":      models.RoleUser,
			"isBanned":  true,
			"banReason": "spam",
			"permissions": map[string]bool{
				"canMute": false, "canBan": false, "canDeleteShouts": false,
			},
		})
		req.Header.Set("Authorization", bearerFor(t, s, admin))
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.User
		assert.NoError(t, db.First(&updated, target.UID).Error)
		assert.True(t, updated.IsBanned)
		assert.Equal(t, "spam", updated.BanReason)
	})
}

func TestAdminInviteEndpoints(t *testing.T) {
	s, app, db := setupTestServer(t)
	admin := createUser(t, db, models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}, "password123")
	auth := bearerFor(t, s, admin)

	t.Run("create with explicit code", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/admin/invite-codes", map[string]any{
			"code":     "PARTY",
			"usesLeft": 3,
		})
		req.Header.Set("Authorization", auth)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var invite models.InviteCode
		decodeBody(t, resp, &invite)
		assert.Equal(t, "PARTY", invite.Code)
		assert.Equal(t, 3, invite.UsesLeft)
	})

	t.Run("create with generated code", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/admin/invite-codes", map[string]any{})
		req.Header.Set("Authorization", auth)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var invite models.InviteCode
		decodeBody(t, resp, &invite)
		assert.Len(t, invite.Code, 12)
	})

	t.Run("list and delete", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/admin/invite-codes", nil)
		req.Header.Set("Authorization", auth)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var invites []models.InviteCode
		decodeBody(t, resp, &invites)
		assert.Len(t, invites, 2)

		req = jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/admin/invite-codes/%d", invites[0].ID), nil)
		req.Header.Set("Authorization", auth)
		resp, err = app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var count int64
		db.Model(&models.InviteCode{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}
