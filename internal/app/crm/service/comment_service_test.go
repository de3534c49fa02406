package service

import (
	"context"
	"testing"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== Create Tests ====================

func TestCommentService_Create_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	commentRepo := new(mocks.MockCommentRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)

	authorID := uuid.New()
	activityID := uuid.New()
	activityRepo.On("GetByID", ctx, activityID).
		Return(&entity.LeadActivity{ID: activityID}, nil)
	commentRepo.On("Create", ctx, mock.MatchedBy(func(c *entity.ActivityComment) bool {
		return c.ActivityID == activityID.String() && c.AuthorID == authorID.String()
	})).Return(nil)

	service := NewCommentService(commentRepo, activityRepo)

	// Act
	comment, err := service.Create(ctx, authorID, activityID.String(), &entity.CreateCommentRequest{
		Body: "Пациент просил перезвонить после обеда",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, activityID.String(), comment.ActivityID)
	commentRepo.AssertExpectations(t)
}

func TestCommentService_Create_UnknownActivity(t *testing.T) {
	ctx := context.Background()
	commentRepo := new(mocks.MockCommentRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)

	activityID := uuid.New()
	activityRepo.On("GetByID", ctx, activityID).Return(nil, repository.ErrNotFound)

	service := NewCommentService(commentRepo, activityRepo)

	comment, err := service.Create(ctx, uuid.New(), activityID.String(), &entity.CreateCommentRequest{
		Body: "note",
	})

	assert.Nil(t, comment)
	assert.ErrorIs(t, err, ErrActivityNotFound)
	commentRepo.AssertNotCalled(t, "Create")
}

// ==================== Delete Tests ====================

// Удаление ограничено активностью из URL: репозиторий получает оба идентификатора
func TestCommentService_Delete_ScopedToActivity(t *testing.T) {
	// Arrange
	ctx := context.Background()
	commentRepo := new(mocks.MockCommentRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)

	activityID := uuid.New().String()
	commentID := "64f1a2b3c4d5e6f7a8b9c0d1"
	commentRepo.On("Delete", ctx, activityID, commentID).Return(nil)

	service := NewCommentService(commentRepo, activityRepo)

	// Act
	err := service.Delete(ctx, activityID, commentID)

	// Assert
	require.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

// Комментарий чужой активности не находится и не удаляется
func TestCommentService_Delete_WrongActivity(t *testing.T) {
	ctx := context.Background()
	commentRepo := new(mocks.MockCommentRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)

	otherActivityID := uuid.New().String()
	commentID := "64f1a2b3c4d5e6f7a8b9c0d1"
	commentRepo.On("Delete", ctx, otherActivityID, commentID).Return(repository.ErrNotFound)

	service := NewCommentService(commentRepo, activityRepo)

	err := service.Delete(ctx, otherActivityID, commentID)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}
