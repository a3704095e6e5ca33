package repositories

import (
	"testing"

	"budget-tracker/internal/database"
	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestNotificationRepository(t *testing.T) {
	suite.Run(t, new(NotificationRepositorySuite))
}

type NotificationRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo NotificationRepositoryInterface
	user *models.User
}

func (s *NotificationRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewNotificationRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "notify@example.com")
}

func (s *NotificationRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *NotificationRepositorySuite) createNotification(message string) *models.Notification {
	notification := &models.Notification{
		UserID:  s.user.ID,
		Type:    models.NotificationTypeBudgetExceeded,
		Message: message,
	}
	s.Require().NoError(s.repo.Create(notification))
	return notification
}

func (s *NotificationRepositorySuite) TestNotificationRepository_Create() {
	notification := &models.Notification{
		UserID:  s.user.ID,
		Type:    models.NotificationTypeBudgetExceeded,
		Message: "You have exceeded your food budget",
	}
	notification.SetMetadata("category", "food")
	notification.SetMetadata("overshoot", "500.00")

	err := s.repo.Create(notification)
	s.NoError(err)
	s.NotEqual(uuid.Nil, notification.ID)
	s.False(notification.IsRead)

	found, err := s.repo.GetByID(notification.ID)
	s.NoError(err)
	s.Equal("food", found.Metadata["category"])
	s.Equal("500.00", found.Metadata["overshoot"])
}

func (s *NotificationRepositorySuite) TestNotificationRepository_GetByUserID() {
	s.createNotification("first")
	s.createNotification("second")

	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	s.Require().NoError(s.repo.Create(&models.Notification{
		UserID:  other.ID,
		Type:    models.NotificationTypeBudgetExceeded,
		Message: "not yours",
	}))

	notifications, total, err := s.repo.GetByUserID(s.user.ID, 0, 10)
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Len(notifications, 2)
}

func (s *NotificationRepositorySuite) TestNotificationRepository_MarkRead() {
	notification := s.createNotification("unread")

	count, err := s.repo.CountUnread(s.user.ID)
	s.NoError(err)
	s.Equal(int64(1), count)

	err = s.repo.MarkRead(notification.ID, s.user.ID)
	s.NoError(err)

	count, err = s.repo.CountUnread(s.user.ID)
	s.NoError(err)
	s.Equal(int64(0), count)

	err = s.repo.MarkRead(uuid.New(), s.user.ID)
	s.Equal(ErrNotificationNotFound, err)
}

func (s *NotificationRepositorySuite) TestNotificationRepository_MarkAllRead() {
	s.createNotification("one")
	s.createNotification("two")

	err := s.repo.MarkAllRead(s.user.ID)
	s.NoError(err)

	count, err := s.repo.CountUnread(s.user.ID)
	s.NoError(err)
	s.Equal(int64(0), count)
}
