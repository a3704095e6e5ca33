package repositories

import (
	"testing"
	"time"

	"budget-tracker/internal/database"
	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) TestUserRepository_Create() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}

	err := s.repo.Create(user)
	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)
	s.NotZero(user.UpdatedAt)
	s.Equal(models.DefaultCurrency, user.Currency)
}

func (s *UserRepositorySuite) TestUserRepository_Create_DuplicateEmail() {
	user := &models.User{
		Email:        "dup@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}
	s.NoError(s.repo.Create(user))

	dup := &models.User{
		Email:        "dup@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Other",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}
	err := s.repo.Create(dup)
	s.Equal(ErrUserAlreadyExists, err)
}

func (s *UserRepositorySuite) TestUserRepository_GetByEmail() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}
	err := s.repo.Create(user)
	s.NoError(err)

	foundUser, err := s.repo.GetByEmail("test@example.com")
	s.NoError(err)
	s.Equal(user.ID, foundUser.ID)
	s.Equal(user.Email, foundUser.Email)

	// Lookup is case-insensitive
	foundUser, err = s.repo.GetByEmail("TEST@example.com")
	s.NoError(err)
	s.Equal(user.ID, foundUser.ID)

	_, err = s.repo.GetByEmail("nonexistent@example.com")
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_Update() {
	user := &models.User{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleCustomer,
	}
	err := s.repo.Create(user)
	s.NoError(err)

	user.FirstName = "Updated"
	user.FailedLoginAttempts = 2
	err = s.repo.Update(user)
	s.NoError(err)

	updatedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal("Updated", updatedUser.FirstName)
	s.Equal(2, updatedUser.FailedLoginAttempts)
}

func (s *UserRepositorySuite) TestUserRepository_ResetFailedLoginAttempts() {
	now := time.Now()
	user := &models.User{
		Email:               "locked@example.com",
		PasswordHash:        "hashed_password",
		FirstName:           "Test",
		LastName:            "User",
		Role:                models.RoleCustomer,
		FailedLoginAttempts: 3,
		LockedAt:            &now,
	}
	err := s.repo.Create(user)
	s.NoError(err)

	err = s.repo.ResetFailedLoginAttempts(user.ID)
	s.NoError(err)

	unlockedUser, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal(0, unlockedUser.FailedLoginAttempts)
	s.Nil(unlockedUser.LockedAt)
}

func (s *UserRepositorySuite) TestUserRepository_GetByResetTokenHash() {
	user := database.CreateTestUser(s.T(), s.db, "reset@example.com")

	user.SetResetToken("abc123hash", 30*time.Minute)
	s.NoError(s.repo.Update(user))

	found, err := s.repo.GetByResetTokenHash("abc123hash")
	s.NoError(err)
	s.Equal(user.ID, found.ID)
	s.True(found.HasValidResetToken("abc123hash"))

	_, err = s.repo.GetByResetTokenHash("unknown")
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_UpdatePasswordHash() {
	user := database.CreateTestUser(s.T(), s.db, "pw@example.com")

	err := s.repo.UpdatePasswordHash(user.ID, "new_hash")
	s.NoError(err)

	updated, err := s.repo.GetByID(user.ID)
	s.NoError(err)
	s.Equal("new_hash", updated.PasswordHash)

	err = s.repo.UpdatePasswordHash(uuid.New(), "new_hash")
	s.Equal(ErrUserNotFound, err)
}

func (s *UserRepositorySuite) TestUserRepository_Delete() {
	user := database.CreateTestUser(s.T(), s.db, "gone@example.com")

	err := s.repo.Delete(user.ID)
	s.NoError(err)

	_, err = s.repo.GetByID(user.ID)
	s.Equal(ErrUserNotFound, err)

	err = s.repo.Delete(uuid.New())
	s.Equal(ErrUserNotFound, err)
}
