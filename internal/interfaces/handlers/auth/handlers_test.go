package auth

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "cosmed-backend/internal/application/auth"
	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Profile{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	h := &Handlers{
		Service: &authsvc.Service{DB: db, Rdb: rdb, OTPTTL: 5 * time.Minute},
		Rdb:     rdb,
		Config: middleware.SessionConfig{
			AllowCrossSiteDev: false,
			IsProduction:      false,
		},
	}
	return h, db
}

func TestRegister_EmptyBody(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	req := httptest.NewRequest("POST", "/register", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegister_CreatesProfile(t *testing.T) {
	h, db := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	body, _ := json.Marshal(map[string]string{
		"email":    "ada@example.com",
		"password": "Secret123!",
	})
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	db.Model(&domain.Profile{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// A session cookie is set on successful registration.
	cookies := resp.Header.Values("Set-Cookie")
	assert.NotEmpty(t, cookies)
}

func TestRegister_Duplicate(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	body, _ := json.Marshal(map[string]string{"email": "ada@example.com", "password": "Secret123!"})
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLogin_Success(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)

	body, _ := json.Marshal(map[string]string{"email": "ada@example.com", "password": "Secret123!"})
	req := httptest.NewRequest("POST", "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	body, _ = json.Marshal(map[string]string{"identifier": "ada@example.com", "password": "Secret123!"})
	req = httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/login", h.Login)

	body, _ := json.Marshal(map[string]string{"identifier": "ghost@example.com", "password": "Secret123!"})
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequestOTP_EchoesCodeOutsideProduction(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/request-otp", h.RequestOTP)
	app.Post("/verify-otp", h.VerifyOTP)

	body, _ := json.Marshal(map[string]string{"phone": "+33612345678"})
	req := httptest.NewRequest("POST", "/request-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	data := got["data"].(map[string]interface{})
	code, _ := data["code"].(string)
	require.Len(t, code, 6)

	body, _ = json.Marshal(map[string]string{"phone": "+33612345678", "code": code})
	req = httptest.NewRequest("POST", "/verify-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMe_NotAuthenticated(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Get("/me", h.Me)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_WithSession(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": "11111111-1111-1111-1111-111111111111"})
		return c.Next()
	})
	app.Get("/me", h.Me)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
