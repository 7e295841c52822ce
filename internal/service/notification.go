package service

import (
	"context"

	"borrowhub-backend/internal/domain"
	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	emailSvc EmailService // nil when the email channel is disabled
}

func NewNotificationService(
	noteRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) NotificationService {
	return &notificationService{
		noteRepo: noteRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
	}
}

// Dispatch persists the in-app notification and best-effort mirrors it to
// email. Failures are logged and swallowed: a missed notification must never
// roll back or block the state transition that triggered it.
func (s *notificationService) Dispatch(ctx context.Context, userID int32, ntype domain.NotificationType, title, message string, relatedID int32) {
	note := &domain.Notification{
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to persist notification",
			"user_id", userID, "type", ntype, "related_id", relatedID, "error", err)
	}

	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Skipping email notification, user lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := s.emailSvc.Send(ctx, user.Email, user.Name, title, message); err != nil {
		logger.Warn("Failed to send email notification", "user_id", userID, "type", ntype, "error", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) PruneRead(ctx context.Context, retentionDays int32) (int64, error) {
	return s.noteRepo.DeleteReadOlderThan(ctx, retentionDays)
}
