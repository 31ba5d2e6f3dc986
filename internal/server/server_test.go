package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tavern/internal/config"
	"tavern/internal/models"
	"tavern/internal/repository"
	"tavern/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.InviteCode{},
		&models.Shout{},
		&models.IPLog{},
		&models.Forum{},
		&models.Thread{},
		&models.Post{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// setupTestServer wires a Server onto an in-memory sqlite DB with all
// routes registered and no Redis.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		JWTSecret: "test-secret-0123456789abcdefghijklmn",
		Env:       "test",
	}

	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteCodeRepository(db)
	shoutRepo := repository.NewShoutRepository(db)
	forumRepo := repository.NewForumRepository(db)

	s := &Server{
		config: cfg,
		db:     db,
	}
	s.authService = service.NewAuthService(db, userRepo)
	s.userService = service.NewUserService(db, userRepo)
	s.shoutService = service.NewShoutService(shoutRepo, userRepo)
	s.forumService = service.NewForumService(db, forumRepo, userRepo)
	s.adminService = service.NewAdminService(userRepo, inviteRepo)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createUser(t *testing.T, db *gorm.DB, user models.User, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func bearerFor(t *testing.T, s *Server, user models.User) string {
	t.Helper()
	token, err := s.generateToken(user.UID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthCheck(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/health", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
}

func TestLivenessCheck(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/health/live", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessCheck_NoRedis(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/health/ready", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
