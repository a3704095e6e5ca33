package repositories

import (
	"errors"
	"time"

	"budget-tracker/internal/models"

	"gorm.io/gorm"
)

var ErrTokenNotFound = errors.New("token not found")

type blacklistedTokenRepository struct {
	db *gorm.DB
}

// NewBlacklistedTokenRepository creates a new blacklisted token repository
func NewBlacklistedTokenRepository(db *gorm.DB) BlacklistedTokenRepositoryInterface {
	return &blacklistedTokenRepository{db: db}
}

// Create records a revoked token. Rows stay until DeleteExpired sweeps them.
func (r *blacklistedTokenRepository) Create(token *models.BlacklistedToken) error {
	return r.db.Create(token).Error
}

// GetByJTI looks up a revoked token by its JWT ID claim. ErrTokenNotFound
// means the token was never revoked.
func (r *blacklistedTokenRepository) GetByJTI(jti string) (*models.BlacklistedToken, error) {
	var token models.BlacklistedToken
	if err := r.db.Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// DeleteExpired prunes blacklist rows whose tokens have expired anyway and
// would be rejected by signature validation regardless.
func (r *blacklistedTokenRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.BlacklistedToken{})
	return result.RowsAffected, result.Error
}
