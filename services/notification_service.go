package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"school-results-api/config"
	"school-results-api/models"
	"school-results-api/utils"
)

// NotificationService is the audit/notification sink: every workflow
// action lands as a persisted notification row, optionally mirrored to
// email. Failures here are logged and swallowed; a missed notification
// must never fail the operation that triggered it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Notify(userID int, title, message, kind string, relatedResultID *int) {
	notification := models.Notification{
		UserID:          userID,
		Title:           title,
		Message:         message,
		Type:            kind,
		RelatedResultID: relatedResultID,
		CreateAt:        time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to store notification for user %d: %v", userID, err)
	}
}

// NotifyWithEmail also mails the user when SMTP is configured.
func (s *NotificationService) NotifyWithEmail(userID int, title, message, kind string, relatedResultID *int) {
	s.Notify(userID, title, message, kind, relatedResultID)

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return
	}
	if !utils.ValidateEmail(user.Email) {
		log.Printf("Warning: user %d has no mailable address, skipping notification mail", userID)
		return
	}

	go func(email string) {
		body := fmt.Sprintf("<p>%s</p>", message)
		if err := config.SendMail([]string{email}, title, body); err != nil {
			log.Printf("Warning: failed to send notification mail to %s: %v", email, err)
		}
	}(user.Email)
}

// Unread returns a user's unread notifications, newest first.
func (s *NotificationService) Unread(userID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("create_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(notificationID uint, userID int) error {
	return s.db.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}
