package referencedata

import (
	refsvc "cosmed-backend/internal/application/referencedata"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers serves the lookup lists behind the onboarding wizard.
type Handlers struct {
	Service *refsvc.Service
}

// Countries GET /api/v1/reference/countries
func (h *Handlers) Countries(c *fiber.Ctx) error {
	out, err := h.Service.ListCountries(c.Context())
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Countries", fiber.Map{"countries": out}, nil)
}

// Departments GET /api/v1/reference/departments
func (h *Handlers) Departments(c *fiber.Ctx) error {
	out, err := h.Service.ListDepartments(c.Context())
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Departments", fiber.Map{"departments": out}, nil)
}

// Positions GET /api/v1/reference/positions
func (h *Handlers) Positions(c *fiber.Ctx) error {
	out, err := h.Service.ListPositions(c.Context())
	if err != nil {
		e := apperrors.Wrap(err)
		return response.ErrorCoded(c, e.Message, string(e.Code), apperrors.HTTPStatus(err))
	}
	return response.Success(c, "Positions", fiber.Map{"positions": out}, nil)
}
