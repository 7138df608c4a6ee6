package company

import (
	"context"
	"errors"
	"strings"

	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/constants"
	"cosmed-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates company directory operations.
type Service struct {
	DB *gorm.DB
}

// CreateInput carries the fields for registering a company.
type CreateInput struct {
	Name        string     `json:"name"`
	LegalID     *string    `json:"legal_id"`
	LegalIDType *string    `json:"legal_id_type"`
	CountryID   *uuid.UUID `json:"country_id"`
	Address     *string    `json:"address"`
	CreatedBy   uuid.UUID  `json:"created_by"`
}

// GetByID looks up a company; a stale reference yields NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	var c domain.Company
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Company")
		}
		return nil, apperrors.Wrap(err)
	}
	return &c, nil
}

// Create registers a company. The legal identifier's unique constraint is
// authoritative: a violation (race with a concurrent registrant) is reported
// as ALREADY_EXISTS, never silently accepted as a duplicate row.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Validation("Company name is required")
	}
	if in.LegalID != nil {
		if !validation.IsValidLegalID(*in.LegalID) {
			return nil, apperrors.Validation("Legal identifier must be exactly 9 digits")
		}
		if in.LegalIDType == nil || !constants.IsValidLegalIDType(*in.LegalIDType) {
			return nil, apperrors.Validation("Legal identifier type must be DUNS or SIREN")
		}
	}

	c := &domain.Company{
		Name:        name,
		LegalID:     in.LegalID,
		LegalIDType: in.LegalIDType,
		CountryID:   in.CountryID,
		Address:     in.Address,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.AlreadyExists("Company")
		}
		return nil, apperrors.Wrap(err)
	}
	return c, nil
}

// Search returns companies whose name contains the query (directory search).
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.Company, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var out []domain.Company
	q := s.DB.WithContext(ctx).Limit(limit)
	if query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, apperrors.Wrap(err)
	}
	return out, nil
}

// IsLegalIDUnique is the UX-only pre-check the company-creation step runs
// before submitting. It leaves a race window; Create's constraint remains
// the source of truth.
func (s *Service) IsLegalIDUnique(ctx context.Context, legalID string) (bool, error) {
	if !validation.IsValidLegalID(legalID) {
		return false, apperrors.Validation("Legal identifier must be exactly 9 digits")
	}
	var count int64
	err := s.DB.WithContext(ctx).Model(&domain.Company{}).
		Where("legal_id = ?", legalID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err)
	}
	return count == 0, nil
}
