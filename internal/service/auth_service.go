package service

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// AuthService handles operator login and account creation.
type AuthService struct {
	userRepo *repository.UserRepository
}

// NewAuthService constructs an AuthService.
func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login verifies credentials and returns a signed JWT plus the user.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("email", email).Msg("Failed to get user by email")
		}
		return "", nil, utils.ErrInvalidCredential
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("Login attempt on inactive account")
		return "", nil, utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, utils.ErrInvalidCredential
	}

	token, err := utils.GenerateJWT(user.ID, user.SiteID, user.Email)
	if err != nil {
		return "", nil, err
	}

	log.Info().Str("email", email).Int("site_id", user.SiteID).Msg("Login successful")
	return token, user, nil
}

// CreateUser registers an operator account with a bcrypt-hashed password.
func (s *AuthService) CreateUser(siteID int, email, password, name string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		SiteID:       siteID,
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser loads a user profile by id.
func (s *AuthService) GetUser(id int) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ChangePassword verifies the current password and installs a new hash.
func (s *AuthService) ChangePassword(userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return utils.ErrInvalidCredential
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(userID, string(hashedPassword)); err != nil {
		return err
	}

	log.Info().Int("user_id", userID).Msg("Password changed")
	return nil
}
