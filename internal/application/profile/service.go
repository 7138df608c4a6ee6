package profile

import (
	"context"
	"errors"

	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates profile operations.
type Service struct {
	DB *gorm.DB
}

// CompletionUpdate is the single write that finalizes onboarding on a profile.
type CompletionUpdate struct {
	FirstName         string
	LastName          string
	DepartmentID      uuid.UUID
	PositionID        uuid.UUID
	CompanyID         *uuid.UUID
	CompanyRole       string
	OnboardingPurpose string
	PreferredLanguage *string
}

// GetByID returns a profile; missing yields NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Profile")
		}
		return nil, apperrors.Wrap(err)
	}
	return &p, nil
}

// CompleteOnboarding applies the finalization in one write: names, department,
// position, company link and role, purpose, completed flag, language.
func (s *Service) CompleteOnboarding(ctx context.Context, id uuid.UUID, upd CompletionUpdate) (*domain.Profile, error) {
	role := upd.CompanyRole
	if role == "" {
		role = constants.RoleUser
	}
	fields := map[string]interface{}{
		"first_name":           upd.FirstName,
		"last_name":            upd.LastName,
		"department_id":        upd.DepartmentID,
		"position_id":          upd.PositionID,
		"company_id":           upd.CompanyID,
		"company_role":         role,
		"onboarding_purpose":   upd.OnboardingPurpose,
		"onboarding_completed": true,
	}
	if upd.PreferredLanguage != nil {
		fields["preferred_language"] = *upd.PreferredLanguage
	}

	result := s.DB.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("Profile")
	}
	return s.GetByID(ctx, id)
}

// ResetOnboarding clears the onboarding-related fields back to empty/false
// (administrative/testing operation, not part of the normal flow).
func (s *Service) ResetOnboarding(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	fields := map[string]interface{}{
		"first_name":           nil,
		"last_name":            nil,
		"department_id":        nil,
		"position_id":          nil,
		"company_id":           nil,
		"company_role":         constants.RoleUser,
		"onboarding_purpose":   nil,
		"onboarding_completed": false,
	}
	result := s.DB.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("Profile")
	}
	return s.GetByID(ctx, id)
}

// UpdatePreferredLanguage stores the locale the user last browsed in.
func (s *Service) UpdatePreferredLanguage(ctx context.Context, id uuid.UUID, locale string) error {
	result := s.DB.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).
		Update("preferred_language", locale)
	if result.Error != nil {
		return apperrors.Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Profile")
	}
	return nil
}
