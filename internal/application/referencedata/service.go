package referencedata

import (
	"context"
	"errors"
	"strings"

	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service serves the lookup lists consumed by the onboarding wizard.
type Service struct {
	DB *gorm.DB
}

func (s *Service) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var out []domain.Country
	if err := s.DB.WithContext(ctx).Order("name_key ASC").Find(&out).Error; err != nil {
		return nil, apperrors.Wrap(err)
	}
	return out, nil
}

func (s *Service) GetCountryByID(ctx context.Context, id uuid.UUID) (*domain.Country, error) {
	var c domain.Country
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Country")
		}
		return nil, apperrors.Wrap(err)
	}
	return &c, nil
}

func (s *Service) GetCountryByCode(ctx context.Context, code string) (*domain.Country, error) {
	var c domain.Country
	if err := s.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Country")
		}
		return nil, apperrors.Wrap(err)
	}
	return &c, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	if err := s.DB.WithContext(ctx).Order("name_key ASC").Find(&out).Error; err != nil {
		return nil, apperrors.Wrap(err)
	}
	return out, nil
}

func (s *Service) ListPositions(ctx context.Context) ([]domain.Position, error) {
	var out []domain.Position
	if err := s.DB.WithContext(ctx).Order("name_key ASC").Find(&out).Error; err != nil {
		return nil, apperrors.Wrap(err)
	}
	return out, nil
}
