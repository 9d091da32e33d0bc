package service

import (
	"errors"

	"shere/config"
	"shere/internal/auth"
	"shere/internal/domain"
	"shere/internal/models"
	"shere/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

type AuthService struct {
	cfg         *config.Config
	userRepo    *repository.UserRepository
	referralSvc *ReferralService
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, referralSvc *ReferralService) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, referralSvc: referralSvc}
}

// RegisterInput carries the signup form. ReferralCode comes from the invite
// link the new user followed, if any.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Country      string
	Currency     string
	Language     string
	ReferralCode string
}

// Register creates a new user with a zeroed ledger (balance=0, share=0,
// invested=0) and links the referrer when a valid referral code is supplied.
func (s *AuthService) Register(in RegisterInput) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(in.Email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Phone:        in.Phone,
		Country:      in.Country,
		Currency:     in.Currency,
		Language:     in.Language,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	s.referralSvc.ProcessReferralCode(in.ReferralCode, u)

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.userRepo.Update(u)
}

// LoginWithGoogle creates or finds a user by Google ID and returns user +
// tokens + isNew flag. referralCode is only applied when creating a brand
// new user.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL, referralCode string) (*models.User, string, string, bool, error) {
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err == nil {
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
		return u, access, refresh, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	// Link Google to an existing email account
	if existing, _ := s.userRepo.GetByEmail(email); existing != nil {
		gid := googleID
		existing.GoogleID = &gid
		if avatarURL != "" && existing.AvatarURL == "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, _ := auth.GenerateAccessToken(&s.cfg.JWT, existing.ID, existing.Email, existing.Role)
		refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, existing.ID)
		return existing, access, refresh, false, nil
	}

	gid := googleID
	u = &models.User{
		Name:      name,
		Email:     email,
		Role:      domain.RoleUser,
		GoogleID:  &gid,
		AvatarURL: avatarURL,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", false, err
	}
	s.referralSvc.ProcessReferralCode(referralCode, u)

	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, true, nil
}
