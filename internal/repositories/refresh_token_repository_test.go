package repositories

import (
	"testing"
	"time"

	"budget-tracker/internal/database"
	"budget-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestRefreshTokenRepository(t *testing.T) {
	suite.Run(t, new(RefreshTokenRepositorySuite))
}

type RefreshTokenRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo RefreshTokenRepositoryInterface
	user *models.User
}

func (s *RefreshTokenRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewRefreshTokenRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "tokens@example.com")
}

func (s *RefreshTokenRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *RefreshTokenRepositorySuite) createToken(hash string, expiresAt time.Time) *models.RefreshToken {
	token := &models.RefreshToken{
		UserID:    s.user.ID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	s.Require().NoError(s.repo.Create(token))
	return token
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_GetByTokenHash() {
	token := s.createToken("hash1", time.Now().Add(time.Hour))

	found, err := s.repo.GetByTokenHash("hash1")
	s.NoError(err)
	s.Equal(token.ID, found.ID)
	s.True(found.IsValid())

	_, err = s.repo.GetByTokenHash("missing")
	s.Equal(ErrRefreshTokenNotFound, err)
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_Revoke() {
	token := s.createToken("hash1", time.Now().Add(time.Hour))

	err := s.repo.Revoke(token.ID)
	s.NoError(err)

	found, err := s.repo.GetByTokenHash("hash1")
	s.NoError(err)
	s.True(found.IsRevoked())
	s.False(found.IsValid())

	// Second revoke is a no-op on an already-revoked token
	err = s.repo.Revoke(token.ID)
	s.Equal(ErrRefreshTokenNotFound, err)
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_RevokeAllForUser() {
	s.createToken("hash1", time.Now().Add(time.Hour))
	s.createToken("hash2", time.Now().Add(time.Hour))

	err := s.repo.RevokeAllForUser(s.user.ID)
	s.NoError(err)

	active, err := s.repo.GetActiveByUserID(s.user.ID)
	s.NoError(err)
	s.Empty(active)
}

func (s *RefreshTokenRepositorySuite) TestRefreshTokenRepository_DeleteExpired() {
	s.createToken("expired", time.Now().Add(-time.Hour))
	s.createToken("valid", time.Now().Add(time.Hour))

	deleted, err := s.repo.DeleteExpired()
	s.NoError(err)
	s.Equal(int64(1), deleted)

	_, err = s.repo.GetByTokenHash("expired")
	s.Equal(ErrRefreshTokenNotFound, err)
}
