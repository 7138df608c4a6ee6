package onboarding

import (
	"context"
	"encoding/json"
	"errors"

	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProgressStore persists wizard progress in the onboarding table,
// one row per profile with the data snapshot as JSON.
type GormProgressStore struct {
	DB *gorm.DB
}

func (s *GormProgressStore) Load(ctx context.Context, profileID uuid.UUID) (*ProgressRecord, error) {
	var row domain.OnboardingProgress
	err := s.DB.WithContext(ctx).Where("profile_id = ?", profileID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err)
	}
	rec := &ProgressRecord{CurrentStep: row.CurrentStep}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &rec.Data); err != nil {
			// Corrupt snapshot: treat as no progress rather than blocking the wizard.
			return nil, nil
		}
	}
	return rec, nil
}

func (s *GormProgressStore) Save(ctx context.Context, profileID uuid.UUID, currentStep int, data Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return apperrors.Wrap(err)
	}
	row := domain.OnboardingProgress{
		ProfileID:   profileID,
		CurrentStep: currentStep,
		Data:        datatypes.JSON(raw),
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_step", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.Wrap(err)
	}
	return nil
}

func (s *GormProgressStore) Delete(ctx context.Context, profileID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Where("profile_id = ?", profileID).Delete(&domain.OnboardingProgress{}).Error
	if err != nil {
		return apperrors.Wrap(err)
	}
	return nil
}
