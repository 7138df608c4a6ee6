package company

import (
	"context"
	"testing"

	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCompanyService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Company{}))
	return &Service{DB: db}
}

func legalInput(name, legalID string) CreateInput {
	idType := constants.LegalIDTypeSIREN
	return CreateInput{
		Name:        name,
		LegalID:     &legalID,
		LegalIDType: &idType,
		CreatedBy:   uuid.New(),
	}
}

func TestCreate_AndGetByID(t *testing.T) {
	svc := setupCompanyService(t)

	created, err := svc.Create(context.Background(), legalInput("Acme", "123456789"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	require.NotNil(t, got.LegalID)
	assert.Equal(t, "123456789", *got.LegalID)
}

func TestCreate_WithoutLegalID(t *testing.T) {
	svc := setupCompanyService(t)
	created, err := svc.Create(context.Background(), CreateInput{Name: "No Registry Ltd", CreatedBy: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, created.LegalID)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := setupCompanyService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	in := legalInput("Acme", "12345")
	_, err = svc.Create(context.Background(), in)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	badType := "EIN"
	in = legalInput("Acme", "123456789")
	in.LegalIDType = &badType
	_, err = svc.Create(context.Background(), in)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

// The unique constraint on legal_id is authoritative: a second registration
// with the same identifier is rejected as ALREADY_EXISTS.
func TestCreate_DuplicateLegalID(t *testing.T) {
	svc := setupCompanyService(t)

	_, err := svc.Create(context.Background(), legalInput("First", "123456789"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), legalInput("Second", "123456789"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestGetByID_NotFound(t *testing.T) {
	svc := setupCompanyService(t)
	_, err := svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestSearch(t *testing.T) {
	svc := setupCompanyService(t)
	for _, name := range []string{"Acme Corp", "Acme Labs", "Globex"} {
		_, err := svc.Create(context.Background(), CreateInput{Name: name, CreatedBy: uuid.New()})
		require.NoError(t, err)
	}

	out, err := svc.Search(context.Background(), "acme", 10)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = svc.Search(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = svc.Search(context.Background(), "acme", 1)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestIsLegalIDUnique(t *testing.T) {
	svc := setupCompanyService(t)
	_, err := svc.Create(context.Background(), legalInput("Acme", "123456789"))
	require.NoError(t, err)

	unique, err := svc.IsLegalIDUnique(context.Background(), "123456789")
	require.NoError(t, err)
	assert.False(t, unique)

	unique, err = svc.IsLegalIDUnique(context.Background(), "987654321")
	require.NoError(t, err)
	assert.True(t, unique)

	_, err = svc.IsLegalIDUnique(context.Background(), "12ab")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
