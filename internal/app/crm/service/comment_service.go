package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"

	"github.com/google/uuid"
)

// CommentService обрабатывает комментарии к активностям лидов.
// Комментарии живут в MongoDB, активности - в PostgreSQL,
// поэтому существование активности проверяется отдельным запросом
type CommentService struct {
	commentRepo  repository.CommentRepository
	activityRepo repository.LeadActivityRepository
}

// NewCommentService создает новый сервис комментариев
func NewCommentService(commentRepo repository.CommentRepository, activityRepo repository.LeadActivityRepository) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		activityRepo: activityRepo,
	}
}

// Create создает комментарий к существующей активности
func (s *CommentService) Create(ctx context.Context, authorID uuid.UUID, activityID string, req *entity.CreateCommentRequest) (*entity.ActivityComment, error) {
	activityUUID, err := uuid.Parse(activityID)
	if err != nil {
		return nil, ErrActivityNotFound
	}

	if _, err := s.activityRepo.GetByID(ctx, activityUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get lead activity: %w", err)
	}

	comment := &entity.ActivityComment{
		ActivityID: activityID,
		AuthorID:   authorID.String(),
		Body:       req.Body,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListByActivity получает комментарии к активности
func (s *CommentService) ListByActivity(ctx context.Context, activityID string) ([]entity.ActivityComment, error) {
	comments, err := s.commentRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Delete удаляет комментарий в рамках указанной активности
func (s *CommentService) Delete(ctx context.Context, activityID, id string) error {
	if err := s.commentRepo.Delete(ctx, activityID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
