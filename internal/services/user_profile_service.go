package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

// UserProfileService manages the authenticated user's own account
type UserProfileService struct {
	userRepo         repositories.UserRepositoryInterface
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface
	logger           *slog.Logger
}

// NewUserProfileService creates a new user profile service
func NewUserProfileService(
	userRepo repositories.UserRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	logger *slog.Logger,
) UserProfileServiceInterface {
	return &UserProfileService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

// GetProfile fetches the user's account record
func (s *UserProfileService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, repositories.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies partial changes to the user's account
func (s *UserProfileService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Currency != nil {
		fields["currency"] = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, repositories.ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		s.logger.Info("Profile updated",
			"user_id", userID)
	}

	return s.GetProfile(userID)
}

// DeleteAccount soft-deletes the account and revokes every session
func (s *UserProfileService) DeleteAccount(userID uuid.UUID) error {
	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return repositories.ErrUserNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.logger.Info("Account deleted",
		"user_id", userID)

	return nil
}
