package onboarding

import (
	onbsvc "cosmed-backend/internal/application/onboarding"
	"cosmed-backend/internal/middleware"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for onboarding endpoints. All routes sit behind
// RequireAuth; the profile id comes from the session.
type Handlers struct {
	Service       *onbsvc.Service
	DefaultLocale string
}

// ProgressRequest body for PUT /progress.
type ProgressRequest struct {
	CurrentStep int         `json:"current_step"`
	Data        onbsvc.Data `json:"data"`
}

// SaveProgress PUT /api/v1/onboarding/progress — upsert the wizard snapshot.
func (h *Handlers) SaveProgress(c *fiber.Ctx) error {
	profileID := middleware.GetUserID(c)
	if profileID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid progress payload", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.SaveProgress(c.Context(), profileID, req.CurrentStep, req.Data); err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Progress saved", nil, nil)
}

// LoadProgress GET /api/v1/onboarding/progress — fetch prior progress.
// Returns data null when there is none (fresh wizard).
func (h *Handlers) LoadProgress(c *fiber.Ctx) error {
	profileID := middleware.GetUserID(c)
	if profileID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	rec, err := h.Service.LoadProgress(c.Context(), profileID)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	if rec == nil {
		return response.Success(c, "No saved progress", nil, nil)
	}
	return response.Success(c, "Progress loaded", fiber.Map{
		"current_step": rec.CurrentStep,
		"data":         rec.Data,
	}, nil)
}

// CompleteRequest body for POST /complete: the accumulated data merged with
// any last-step overrides, plus an optional locale.
type CompleteRequest struct {
	Data   onbsvc.Data `json:"data"`
	Locale string      `json:"locale"`
}

// Complete POST /api/v1/onboarding/complete — run the completion workflow.
func (h *Handlers) Complete(c *fiber.Ctx) error {
	profileID := middleware.GetUserID(c)
	if profileID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid completion payload", fiber.StatusBadRequest, nil)
	}
	locale := req.Locale
	if locale == "" {
		locale = h.DefaultLocale
	}
	result, err := h.Service.Complete(c.Context(), profileID, req.Data, locale)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Onboarding completed", fiber.Map{
		"profile": result.Profile,
		"company": result.Company,
	}, nil)
}

// NeedsOnboarding GET /api/v1/onboarding/needs-onboarding — wizard gate.
func (h *Handlers) NeedsOnboarding(c *fiber.Ctx) error {
	profileID := middleware.GetUserID(c)
	if profileID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	needs, err := h.Service.NeedsOnboarding(c.Context(), profileID)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Onboarding status", fiber.Map{"needs_onboarding": needs}, nil)
}

// GetStatus GET /api/v1/onboarding/status — completion summary.
func (h *Handlers) GetStatus(c *fiber.Ctx) error {
	profileID := middleware.GetUserID(c)
	if profileID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	st, err := h.Service.GetStatus(c.Context(), profileID)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Onboarding status", st, nil)
}

// Reset POST /api/v1/onboarding/reset — administrative/testing reset.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	profileID := middleware.GetUserID(c)
	if profileID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	prof, err := h.Service.ResetOnboarding(c.Context(), profileID)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Onboarding reset", fiber.Map{"profile": prof}, nil)
}
