package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed login attempts")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// resetNotifyTimeout bounds the outbound reset email; ForgotPassword itself
// must not hang on a slow SMTP server.
const resetNotifyTimeout = 10 * time.Second

// AuthService handles registration, login and the token lifecycle
type AuthService struct {
	userRepo         repositories.UserRepositoryInterface
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface
	blacklistRepo    repositories.BlacklistedTokenRepositoryInterface
	tokenService     TokenServiceInterface
	passwordService  PasswordServiceInterface
	notifier         NotifierInterface
	metrics          MetricsRecorderInterface
	security         config.SecurityConfig
	logger           *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	refreshTokenRepo repositories.RefreshTokenRepositoryInterface,
	blacklistRepo repositories.BlacklistedTokenRepositoryInterface,
	tokenService TokenServiceInterface,
	passwordService PasswordServiceInterface,
	notifier NotifierInterface,
	metrics MetricsRecorderInterface,
	security config.SecurityConfig,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		blacklistRepo:    blacklistRepo,
		tokenService:     tokenService,
		passwordService:  passwordService,
		notifier:         notifier,
		metrics:          metrics,
		security:         security,
		logger:           logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, error) {
	if err := s.passwordService.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	passwordHash, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Currency:     currency,
		Role:         models.RoleCustomer,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) || errors.Is(err, repositories.ErrEmailAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered",
		"user_id", user.ID,
		"email", user.Email)
	s.recordAuthEvent("register")

	return user, nil
}

// Login authenticates a user and issues an access/refresh token pair
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.recordAuthEvent("login_failed")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsLocked() {
		s.logger.Warn("Login attempt on locked account",
			"user_id", user.ID)
		s.recordAuthEvent("login_locked")
		return nil, ErrAccountLocked
	}

	if err := s.passwordService.ComparePassword(user.PasswordHash, req.Password); err != nil {
		user.IncrementFailedAttempts()
		if updateErr := s.userRepo.UpdateFailedLoginAttempts(user); updateErr != nil {
			s.logger.Error("Failed to record failed login attempt",
				"user_id", user.ID,
				"error", updateErr)
		}
		s.recordAuthEvent("login_failed")
		if user.IsLocked() {
			s.logger.Warn("Account locked after repeated failed logins",
				"user_id", user.ID,
				"attempts", user.FailedLoginAttempts)
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 {
		if err := s.userRepo.ResetFailedLoginAttempts(user.ID); err != nil {
			// Non-critical: stale attempt counter shouldn't block a valid login
			s.logger.Error("Failed to reset login attempts",
				"user_id", user.ID,
				"error", err)
		}
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	user.UpdateLastLogin()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"last_login_at": user.LastLoginAt,
	}); err != nil {
		s.logger.Error("Failed to update last login time",
			"user_id", user.ID,
			"error", err)
	}

	s.logger.Info("User logged in",
		"user_id", user.ID)
	s.recordAuthEvent("login")

	return tokens, nil
}

// RefreshTokens validates a refresh token and rotates it for a new pair
func (s *AuthService) RefreshTokens(refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.recordAuthEvent("refresh_failed")
		return nil, err
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repositories.ErrRefreshTokenNotFound) {
			s.recordAuthEvent("refresh_failed")
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if !stored.IsValid() {
		s.recordAuthEvent("refresh_failed")
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	// Rotate: the presented token is single-use
	if err := s.refreshTokenRepo.Revoke(stored.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	tokens, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	s.recordAuthEvent("refresh")

	return tokens, nil
}

// Logout blacklists the access token and revokes all refresh tokens for the user
func (s *AuthService) Logout(accessToken string) error {
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ErrInvalidToken
	}

	expiry, err := s.tokenService.GetTokenExpiry(accessToken)
	if err != nil {
		return err
	}

	if err := s.blacklistRepo.Create(&models.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: expiry,
	}); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	s.logger.Info("User logged out",
		"user_id", userID)
	s.recordAuthEvent("logout")

	return nil
}

// ForgotPassword issues a reset token and emails it to the account holder.
// It succeeds even when no account matches, to avoid leaking which emails
// are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.Debug("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, tokenHash, err := s.passwordService.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	user.SetResetToken(tokenHash, s.security.ResetTokenDuration)
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"reset_token_hash":    user.ResetTokenHash,
		"reset_token_expires": user.ResetTokenExpires,
	}); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	notifyCtx, cancel := context.WithTimeout(ctx, resetNotifyTimeout)
	defer cancel()

	if err := s.notifier.SendPasswordReset(notifyCtx, user, token); err != nil {
		// Non-critical: a delivery failure must not reveal account existence
		s.logger.Error("Failed to send password reset email",
			"user_id", user.ID,
			"error", err)
		s.recordAuthEvent("reset_email_failed")
		return nil
	}

	s.logger.Info("Password reset email sent",
		"user_id", user.ID)
	s.recordAuthEvent("reset_requested")

	return nil
}

// ResetPassword completes a reset flow with the emailed token
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := s.passwordService.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByResetTokenHash(s.passwordService.HashResetToken(token))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if !user.HasValidResetToken(s.passwordService.HashResetToken(token)) {
		return ErrInvalidResetToken
	}

	passwordHash, err := s.passwordService.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.ClearResetToken()
	user.Unlock()
	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_hash":         passwordHash,
		"reset_token_hash":      "",
		"reset_token_expires":   nil,
		"failed_login_attempts": 0,
		"locked_at":             nil,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Every existing session is invalidated along with the password
	if err := s.refreshTokenRepo.RevokeAllForUser(user.ID); err != nil {
		s.logger.Error("Failed to revoke sessions after password reset",
			"user_id", user.ID,
			"error", err)
	}

	s.logger.Info("Password reset completed",
		"user_id", user.ID)
	s.recordAuthEvent("reset_completed")

	return nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*dto.TokenResponse, error) {
	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: refreshExpiresAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *AuthService) recordAuthEvent(eventType string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter("authentication_event", map[string]string{
		"event_type": eventType,
	})
}

// hashToken returns the hex SHA-256 of a token; raw refresh tokens are
// never stored.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
