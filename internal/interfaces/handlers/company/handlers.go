package company

import (
	companysvc "cosmed-backend/internal/application/company"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for company directory endpoints.
type Handlers struct {
	Service *companysvc.Service
}

// Search GET /api/v1/companies?q=...&limit=... — directory name search.
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 10)
	companies, err := h.Service.Search(c.Context(), query, limit)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Companies", fiber.Map{"companies": companies}, nil)
}

// GetByID GET /api/v1/companies/:id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid company id", fiber.StatusBadRequest, nil)
	}
	company, err := h.Service.GetByID(c.Context(), id)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Company", fiber.Map{"company": company}, nil)
}

// CheckLegalID GET /api/v1/companies/check-legal-id?legal_id=... — the
// UX-only uniqueness pre-check used by the company-creation step.
func (h *Handlers) CheckLegalID(c *fiber.Ctx) error {
	legalID := c.Query("legal_id")
	unique, err := h.Service.IsLegalIDUnique(c.Context(), legalID)
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Legal id check", fiber.Map{"unique": unique}, nil)
}
