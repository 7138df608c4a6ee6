package onboarding

import (
	"context"

	"cosmed-backend/internal/application/company"
	"cosmed-backend/internal/application/profile"
	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/constants"
	"cosmed-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CompanyDirectory is the company repository surface the workflow consumes;
// *company.Service satisfies it, tests substitute call-recording doubles.
type CompanyDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	Create(ctx context.Context, in company.CreateInput) (*domain.Company, error)
}

// ProfileFinalizer is the profile repository surface the workflow consumes;
// *profile.Service satisfies it.
type ProfileFinalizer interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	CompleteOnboarding(ctx context.Context, id uuid.UUID, upd profile.CompletionUpdate) (*domain.Profile, error)
	ResetOnboarding(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

// Service orchestrates the multi-entity completion workflow plus the
// progress save/load operations behind the HTTP surface.
type Service struct {
	Companies CompanyDirectory
	Profiles  ProfileFinalizer
	Progress  ProgressStore
}

// Result is the outcome of a successful completion.
type Result struct {
	Profile *domain.Profile `json:"profile"`
	Company *domain.Company `json:"company"`
}

// Complete runs the finalization sequence for a fully accumulated Data:
//  1. resolve or create the company association,
//  2. finalize the profile in one write,
//  3. best-effort delete of the persisted progress.
//
// The underlying storage has no cross-entity transaction, so each step is a
// separate call and a failure aborts the remaining steps with a coded error.
// If step 2 fails after step 1 created a company, that company is orphaned
// until a retry re-links it; retrying with the same "new" data creates a
// duplicate unless the caller re-supplies the created id as "existing".
func (s *Service) Complete(ctx context.Context, profileID uuid.UUID, data Data, locale string) (*Result, error) {
	if profileID == uuid.Nil {
		return nil, apperrors.Unauthorized()
	}
	if err := validateCompletionData(data); err != nil {
		return nil, err
	}

	departmentID, err := uuid.Parse(data.DepartmentID)
	if err != nil {
		return nil, apperrors.Validation("Invalid department reference")
	}
	positionID, err := uuid.Parse(data.PositionID)
	if err != nil {
		return nil, apperrors.Validation("Invalid position reference")
	}

	// 1. Resolve company association.
	var comp *domain.Company
	var companyID *uuid.UUID
	companyRole := constants.RoleUser

	switch data.CompanyChoice {
	case CompanyExisting:
		id, err := uuid.Parse(data.SelectedCompanyID)
		if err != nil {
			return nil, apperrors.Validation("Invalid company reference")
		}
		comp, err = s.Companies.GetByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("profile_id", profileID.String()).Str("company_id", id.String()).
				Msg("onboarding: selected company could not be resolved")
			return nil, err
		}
		companyID = &id

	case CompanyNew:
		form := data.NewCompany
		in := company.CreateInput{
			Name:        form.CompanyName,
			LegalID:     &form.LegalID,
			LegalIDType: &form.LegalIDType,
			CreatedBy:   profileID,
		}
		if form.CountryID != "" {
			cid, err := uuid.Parse(form.CountryID)
			if err != nil {
				return nil, apperrors.Validation("Invalid country reference")
			}
			in.CountryID = &cid
		}
		if form.Address != "" {
			addr := form.Address
			in.Address = &addr
		}
		comp, err = s.Companies.Create(ctx, in)
		if err != nil {
			log.Warn().Err(err).Str("profile_id", profileID.String()).
				Msg("onboarding: company creation failed")
			return nil, err
		}
		companyID = &comp.ID
		companyRole = constants.RoleAdmin // creator becomes administrator

	case CompanyNone:
		// No company association; default role is unused.
	}

	// 2. Finalize the profile in one write.
	upd := profile.CompletionUpdate{
		FirstName:         data.FirstName,
		LastName:          data.LastName,
		DepartmentID:      departmentID,
		PositionID:        positionID,
		CompanyID:         companyID,
		CompanyRole:       companyRole,
		OnboardingPurpose: string(data.Purpose),
	}
	if locale != "" {
		upd.PreferredLanguage = &locale
	}
	prof, err := s.Profiles.CompleteOnboarding(ctx, profileID, upd)
	if err != nil {
		if companyID != nil && data.CompanyChoice == CompanyNew {
			log.Error().Err(err).Str("profile_id", profileID.String()).Str("company_id", companyID.String()).
				Msg("onboarding: profile finalization failed after company creation; company is orphaned until retried")
		}
		return nil, err
	}

	// 3. Clear transient progress. The profile is already finalized, so a
	// failure here is logged and swallowed.
	if err := s.Progress.Delete(ctx, profileID); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID.String()).
			Msg("onboarding: progress cleanup failed after completion")
	}

	return &Result{Profile: prof, Company: comp}, nil
}

// validateCompletionData enforces the accumulation contract before any remote
// call: purpose, personal info, and a coherent company choice.
func validateCompletionData(data Data) error {
	if data.Purpose == "" || !constants.IsValidPurpose(string(data.Purpose)) {
		return apperrors.Validation("Purpose is required")
	}
	if !validation.IsValidName(data.FirstName) || !validation.IsValidName(data.LastName) {
		return apperrors.Validation("First and last name are required (2-50 characters)")
	}
	if data.DepartmentID == "" || data.PositionID == "" {
		return apperrors.Validation("Department and position are required")
	}
	switch data.CompanyChoice {
	case CompanyExisting:
		if data.SelectedCompanyID == "" {
			return apperrors.Validation("A company selection is required")
		}
	case CompanyNew:
		if data.NewCompany == nil {
			return apperrors.Validation("Company details are required")
		}
		if !validation.IsValidLegalID(data.NewCompany.LegalID) {
			return apperrors.Validation("Legal identifier must be exactly 9 digits")
		}
		if !constants.IsValidLegalIDType(data.NewCompany.LegalIDType) {
			return apperrors.Validation("Legal identifier type must be DUNS or SIREN")
		}
	case CompanyNone:
	default:
		return apperrors.Validation("A company choice is required")
	}
	return nil
}

// NeedsOnboarding reports whether the identity still has the wizard ahead of
// it. A missing profile means "needs onboarding" rather than an error: a new
// identity may race the async profile provisioning trigger.
func (s *Service) NeedsOnboarding(ctx context.Context, profileID uuid.UUID) (bool, error) {
	prof, err := s.Profiles.GetByID(ctx, profileID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			return true, nil
		}
		return false, err
	}
	return !prof.OnboardingCompleted, nil
}

// Status summarizes a profile's onboarding state.
type Status struct {
	IsCompleted bool   `json:"is_completed"`
	Purpose     string `json:"purpose,omitempty"`
	HasCompany  bool   `json:"has_company"`
}

// GetStatus returns the onboarding status for a profile.
func (s *Service) GetStatus(ctx context.Context, profileID uuid.UUID) (*Status, error) {
	prof, err := s.Profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	st := &Status{
		IsCompleted: prof.OnboardingCompleted,
		HasCompany:  prof.CompanyID != nil,
	}
	if prof.OnboardingPurpose != nil {
		st.Purpose = *prof.OnboardingPurpose
	}
	return st, nil
}

// ResetOnboarding deletes persisted progress and clears the profile's
// onboarding fields (administrative/testing operation).
func (s *Service) ResetOnboarding(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	if err := s.Progress.Delete(ctx, profileID); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID.String()).
			Msg("onboarding: progress delete failed during reset")
	}
	return s.Profiles.ResetOnboarding(ctx, profileID)
}

// SaveProgress upserts the durable progress record (called at each step).
func (s *Service) SaveProgress(ctx context.Context, profileID uuid.UUID, currentStep int, data Data) error {
	if profileID == uuid.Nil {
		return apperrors.Unauthorized()
	}
	if currentStep < 1 {
		return apperrors.Validation("Step must be at least 1")
	}
	return s.Progress.Save(ctx, profileID, currentStep, data)
}

// LoadProgress fetches prior progress, nil when none exists.
func (s *Service) LoadProgress(ctx context.Context, profileID uuid.UUID) (*ProgressRecord, error) {
	if profileID == uuid.Nil {
		return nil, apperrors.Unauthorized()
	}
	return s.Progress.Load(ctx, profileID)
}
