package auth

import (
	"context"

	authsvc "cosmed-backend/internal/application/auth"
	"cosmed-backend/internal/middleware"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// RegisterRequest body for POST /register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register POST /api/v1/auth/register — create a profile, open a session.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email or phone and password are required", fiber.StatusBadRequest, nil)
	}
	prof, err := h.Service.Register(c.Context(), authsvc.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}

	h.openSession(c, prof.ID.String(), prof.Email, prof.Phone)

	return response.SuccessCreated(c, "Account created", fiber.Map{
		"user": fiber.Map{
			"user_id": prof.ID.String(),
			"email":   prof.Email,
			"phone":   prof.Phone,
		},
	}, nil)
}

// LoginRequest body: identifier is an email or a phone number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login POST /api/v1/auth/login — authenticate, create session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Identifier and password are required", fiber.StatusBadRequest, nil)
	}
	prof, err := h.Service.Login(c.Context(), req.Identifier, req.Password)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}

	h.openSession(c, prof.ID.String(), prof.Email, prof.Phone)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id": prof.ID.String(),
			"email":   prof.Email,
			"phone":   prof.Phone,
		},
	}, nil)
}

// openSession regenerates the session id, stores the user, tracks the session
// set in Redis, and sets the cookie.
func (h *Handlers) openSession(c *fiber.Ctx, userID string, email, phone *string) {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{UserID: userID, Email: email, Phone: phone})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+userID, sessionID).Err(); err != nil {
		log.Warn().Err(err).Msg("auth: failed to track session")
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)
}

// OTPRequest body for issue/verify.
type OTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// RequestOTP POST /api/v1/auth/request-otp — issue a phone verification code.
// The code goes out via SMS; outside production it is echoed in the response
// for local testing.
func (h *Handlers) RequestOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Phone is required", fiber.StatusBadRequest, nil)
	}
	code, err := h.Service.IssueOTP(c.Context(), req.Phone)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	data := fiber.Map{}
	if !h.Config.IsProduction {
		data["code"] = code
	}
	return response.Success(c, "Verification code sent", data, nil)
}

// VerifyOTP POST /api/v1/auth/verify-otp — check a phone verification code.
func (h *Handlers) VerifyOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Phone and code are required", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.VerifyOTP(c.Context(), req.Phone, req.Code); err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Phone verified", nil, nil)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": m}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop the session and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	ctx := context.Background()
	if sessionUser != nil && sessionID != "" {
		if m, ok := sessionUser.(map[string]interface{}); ok {
			if userID, _ := m["user_id"].(string); userID != "" {
				_ = h.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err()
			}
		}
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
