package services

import (
	"testing"

	"budget-tracker/internal/database"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/stretchr/testify/suite"
)

type NotificationServiceSuite struct {
	suite.Suite
	db      *database.DB
	repo    repositories.NotificationRepositoryInterface
	service NotificationServiceInterface
	user    *models.User
}

func (s *NotificationServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = repositories.NewNotificationRepository(s.db.DB)
	s.service = NewNotificationService(s.repo)
	s.user = database.CreateTestUser(s.T(), s.db, "feed@example.com")
}

func (s *NotificationServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *NotificationServiceSuite) addNotification(message string) *models.Notification {
	notification := &models.Notification{
		UserID:  s.user.ID,
		Type:    models.NotificationTypeBudgetExceeded,
		Message: message,
	}
	s.Require().NoError(s.repo.Create(notification))
	return notification
}

func (s *NotificationServiceSuite) TestListNotifications() {
	s.addNotification("first")
	s.addNotification("second")
	s.addNotification("third")

	notifications, total, unread, err := s.service.ListNotifications(s.user.ID, 1, 2)
	s.Require().NoError(err)

	s.Equal(int64(3), total)
	s.Equal(int64(3), unread)
	s.Len(notifications, 2)
}

func (s *NotificationServiceSuite) TestMarkRead() {
	notification := s.addNotification("first")
	s.addNotification("second")

	s.Require().NoError(s.service.MarkRead(s.user.ID, notification.ID))

	_, _, unread, err := s.service.ListNotifications(s.user.ID, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(1), unread)
}

func (s *NotificationServiceSuite) TestMarkRead_OtherUsersNotification() {
	notification := s.addNotification("first")

	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	s.ErrorIs(s.service.MarkRead(other.ID, notification.ID), ErrNotificationNotFound)
}

func (s *NotificationServiceSuite) TestMarkAllRead() {
	s.addNotification("first")
	s.addNotification("second")

	s.Require().NoError(s.service.MarkAllRead(s.user.ID))

	_, _, unread, err := s.service.ListNotifications(s.user.ID, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(0), unread)
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}
