package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

type NotificationService interface {
	List(ctx context.Context, companyID string, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, companyID string) error
	Delete(ctx context.Context, id string) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notifRepo: notifRepo}
}

func (s *notificationService) List(ctx context.Context, companyID string, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	parsed, err := uuid.Parse(companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid company_id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.notifRepo.List(ctx, parsed, unreadOnly, page, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	notifID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	if _, err := s.notifRepo.FindByID(ctx, notifID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	return s.notifRepo.MarkRead(ctx, notifID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, companyID string) error {
	parsed, err := uuid.Parse(companyID)
	if err != nil {
		return fmt.Errorf("invalid company_id: %w", err)
	}
	return s.notifRepo.MarkAllRead(ctx, parsed)
}

func (s *notificationService) Delete(ctx context.Context, id string) error {
	notifID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	if _, err := s.notifRepo.FindByID(ctx, notifID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	return s.notifRepo.Delete(ctx, notifID)
}
