package services

import (
	"testing"

	"school-results-api/models"
)

func TestNotifyStoresUnreadRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	resultID := 7
	svc.Notify(10, "Result rejected", "A result you submitted was rejected", "warning", &resultID)

	unread, err := svc.Unread(10)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("unread = %d, want 1", len(unread))
	}
	if unread[0].RelatedResultID == nil || *unread[0].RelatedResultID != resultID {
		t.Fatalf("related result = %v, want %d", unread[0].RelatedResultID, resultID)
	}

	if err := svc.MarkRead(unread[0].NotificationID, 10); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, err = svc.Unread(10)
	if err != nil {
		t.Fatalf("unread after mark: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("unread = %d after marking read, want 0", len(unread))
	}
}

func TestNotifyWithEmailSkipsUnmailableAddress(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	user := models.User{UserID: 10, Email: "not-an-address", RoleID: models.RoleTeacher}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	// The mail leg must bail out on a bad address; the persisted row
	// still lands.
	svc.NotifyWithEmail(10, "Result rejected", "A result you submitted was rejected", "warning", nil)

	unread, err := svc.Unread(10)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("unread = %d, want 1", len(unread))
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	svc.Notify(10, "Title", "Message", "info", nil)
	unread, _ := svc.Unread(10)
	if len(unread) != 1 {
		t.Fatalf("unread = %d, want 1", len(unread))
	}

	// Another user cannot flip someone else's notification.
	if err := svc.MarkRead(unread[0].NotificationID, 11); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	var reloaded models.Notification
	db.First(&reloaded, unread[0].NotificationID)
	if reloaded.IsRead {
		t.Fatal("notification marked read by a different user")
	}
}
