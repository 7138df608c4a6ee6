package company

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	companysvc "cosmed-backend/internal/application/company"
	"cosmed-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCompanyHandlers(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}))
	return &Handlers{Service: &companysvc.Service{DB: db}}, db
}

func newCompanyApp(h *Handlers) *fiber.App {
	app := fiber.New()
	app.Get("/api/v1/companies/check-legal-id", h.CheckLegalID)
	app.Get("/api/v1/companies/:id", h.GetByID)
	app.Get("/api/v1/companies/", h.Search)
	return app
}

func TestSearch_ReturnsMatches(t *testing.T) {
	h, db := setupCompanyHandlers(t)
	require.NoError(t, db.Create(&domain.Company{Name: "Acme Corp", CreatedBy: uuid.New()}).Error)
	require.NoError(t, db.Create(&domain.Company{Name: "Globex", CreatedBy: uuid.New()}).Error)
	app := newCompanyApp(h)

	req := httptest.NewRequest("GET", "/api/v1/companies/?q=acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	data := got["data"].(map[string]interface{})
	companies := data["companies"].([]interface{})
	assert.Len(t, companies, 1)
}

func TestGetByID_InvalidID(t *testing.T) {
	h, _ := setupCompanyHandlers(t)
	app := newCompanyApp(h)

	req := httptest.NewRequest("GET", "/api/v1/companies/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetByID_NotFound(t *testing.T) {
	h, _ := setupCompanyHandlers(t)
	app := newCompanyApp(h)

	req := httptest.NewRequest("GET", "/api/v1/companies/"+uuid.New().String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCheckLegalID(t *testing.T) {
	h, db := setupCompanyHandlers(t)
	legalID := "123456789"
	idType := "SIREN"
	require.NoError(t, db.Create(&domain.Company{
		Name: "Acme", LegalID: &legalID, LegalIDType: &idType, CreatedBy: uuid.New(),
	}).Error)
	app := newCompanyApp(h)

	req := httptest.NewRequest("GET", "/api/v1/companies/check-legal-id?legal_id=123456789", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, false, data["unique"])

	req = httptest.NewRequest("GET", "/api/v1/companies/check-legal-id?legal_id=987654321", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	data = got["data"].(map[string]interface{})
	assert.Equal(t, true, data["unique"])
}
