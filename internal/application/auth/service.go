package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"cosmed-backend/internal/domain"
	"cosmed-backend/internal/pkg/apperrors"
	"cosmed-backend/internal/pkg/constants"
	"cosmed-backend/internal/pkg/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpPrefix = "otp:"

// Service holds DB and Redis for authentication operations.
type Service struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	OTPTTL time.Duration
}

// RegisterInput carries sign-up credentials: email or phone plus password.
type RegisterInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a profile with hashed credentials. Onboarding fields stay
// empty; the wizard fills them after the first sign-in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return nil, apperrors.Validation("Email or phone is required")
	}
	if email != "" && !validation.IsValidEmail(email) {
		return nil, apperrors.Validation("Invalid email format")
	}
	if phone != "" && !validation.IsValidPhone(phone) {
		return nil, apperrors.Validation("Invalid phone format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperrors.Validation("Password must be at least 8 characters with a letter, a number, and a special character")
	}

	var existing domain.Profile
	if email != "" {
		if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
			return nil, apperrors.AlreadyExists("Account")
		}
	}
	if phone != "" {
		if err := s.DB.WithContext(ctx).Where("phone = ?", phone).First(&existing).Error; err == nil {
			return nil, apperrors.AlreadyExists("Account")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, apperrors.Wrap(err)
	}

	p := &domain.Profile{
		PasswordHash: string(hash),
		CompanyRole:  constants.RoleUser,
	}
	if email != "" {
		p.Email = &email
	}
	if phone != "" {
		p.Phone = &phone
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.AlreadyExists("Account")
		}
		return nil, apperrors.Wrap(err)
	}
	return p, nil
}

// Login verifies an identifier (email or phone) and password.
func (s *Service) Login(ctx context.Context, identifier, password string) (*domain.Profile, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.Validation("Identifier and password are required")
	}

	var p domain.Profile
	var err error
	switch validation.ClassifyIdentifier(identifier) {
	case validation.IdentifierEmail:
		err = s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(identifier)).First(&p).Error
	case validation.IdentifierPhone:
		err = s.DB.WithContext(ctx).Where("phone = ?", identifier).First(&p).Error
	default:
		return nil, apperrors.Validation("Identifier must be an email or a phone number")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized()
		}
		return nil, apperrors.Wrap(err)
	}
	if p.PasswordHash == "" {
		return nil, apperrors.Unauthorized()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized()
	}
	return &p, nil
}

// IssueOTP generates a 6-digit verification code for a phone number and
// stores it in Redis with a TTL. Delivery (SMS) is out of band; the code is
// returned so the caller can hand it to the sender.
func (s *Service) IssueOTP(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !validation.IsValidPhone(phone) {
		return "", apperrors.Validation("Invalid phone format")
	}
	code, err := sixDigitCode()
	if err != nil {
		return "", apperrors.Wrap(err)
	}
	ttl := s.OTPTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := s.Rdb.Set(ctx, otpPrefix+phone, code, ttl).Err(); err != nil {
		return "", apperrors.Wrap(err)
	}
	return code, nil
}

// VerifyOTP checks a code against the stored one and consumes it on success.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || code == "" {
		return apperrors.Validation("Phone and code are required")
	}
	stored, err := s.Rdb.Get(ctx, otpPrefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.Unauthorized()
		}
		return apperrors.Wrap(err)
	}
	if stored != code {
		return apperrors.Unauthorized()
	}
	_ = s.Rdb.Del(ctx, otpPrefix+phone).Err()
	return nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
