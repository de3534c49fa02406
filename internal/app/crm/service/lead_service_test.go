package service

import (
	"context"
	"encoding/json"
	"testing"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeadService_Create_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	leadRepo := new(mocks.MockLeadRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)
	producer := new(mocks.MockMessagePublisher)

	actorID := uuid.New()

	leadRepo.On("Create", ctx, mock.AnythingOfType("*entity.Lead")).Return(nil)
	activityRepo.On("Create", ctx, mock.MatchedBy(func(a *entity.LeadActivity) bool {
		return a.Action == "created" && a.ActorID == actorID
	})).Return(nil)
	producer.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	service := NewLeadService(leadRepo, activityRepo, producer)

	// Act
	lead, err := service.Create(ctx, actorID, &entity.CreateLeadRequest{
		Name:  "Petr Ivanov",
		Phone: "+7 900 000-00-00",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)

	require.Len(t, producer.Messages, 1)
	var event entity.LeadEvent
	require.NoError(t, json.Unmarshal(producer.Messages[0], &event))
	assert.Equal(t, entity.EventTypeLeadCreated, event.EventType)
	assert.Equal(t, lead.ID, event.LeadID)

	leadRepo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

// Сбой Kafka не откатывает созданного лида
func TestLeadService_Create_ProducerFailureIgnored(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(mocks.MockLeadRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)
	producer := new(mocks.MockMessagePublisher)

	leadRepo.On("Create", ctx, mock.AnythingOfType("*entity.Lead")).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*entity.LeadActivity")).Return(nil)
	producer.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(assert.AnError)

	service := NewLeadService(leadRepo, activityRepo, producer)

	lead, err := service.Create(ctx, uuid.New(), &entity.CreateLeadRequest{Name: "Petr Ivanov"})

	require.NoError(t, err)
	assert.NotNil(t, lead)
}

func TestLeadService_Update_StatusChangeJournaled(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(mocks.MockLeadRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)
	producer := new(mocks.MockMessagePublisher)

	id := uuid.New()
	actorID := uuid.New()
	status := entity.LeadStatusContacted

	leadRepo.On("GetByID", ctx, id).Return(&entity.Lead{ID: id, Name: "Petr", Status: entity.LeadStatusNew}, nil)
	leadRepo.On("Update", ctx, mock.AnythingOfType("*entity.Lead")).Return(nil)
	activityRepo.On("Create", ctx, mock.MatchedBy(func(a *entity.LeadActivity) bool {
		return a.Description == "status changed: new -> contacted"
	})).Return(nil)
	producer.On("PublishMessage", ctx, id.String(), mock.Anything).Return(nil)

	service := NewLeadService(leadRepo, activityRepo, producer)

	lead, err := service.Update(ctx, actorID, id, &entity.UpdateLeadRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatusContacted, lead.Status)
	activityRepo.AssertExpectations(t)
}

func TestLeadService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(mocks.MockLeadRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)

	id := uuid.New()
	leadRepo.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	service := NewLeadService(leadRepo, activityRepo, nil)

	lead, err := service.Update(ctx, uuid.New(), id, &entity.UpdateLeadRequest{})

	assert.Nil(t, lead)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestLeadService_Delete_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(mocks.MockLeadRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)
	producer := new(mocks.MockMessagePublisher)

	id := uuid.New()
	leadRepo.On("GetByID", ctx, id).Return(&entity.Lead{ID: id, Name: "Petr"}, nil)
	leadRepo.On("Delete", ctx, id).Return(nil)
	producer.On("PublishMessage", ctx, id.String(), mock.Anything).Return(nil)

	service := NewLeadService(leadRepo, activityRepo, producer)

	require.NoError(t, service.Delete(ctx, uuid.New(), id))

	require.Len(t, producer.Messages, 1)
	var event entity.LeadEvent
	require.NoError(t, json.Unmarshal(producer.Messages[0], &event))
	assert.Equal(t, entity.EventTypeLeadDeleted, event.EventType)
}

func TestLeadService_ListActivity_UnknownLead(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(mocks.MockLeadRepository)
	activityRepo := new(mocks.MockLeadActivityRepository)

	id := uuid.New()
	leadRepo.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	service := NewLeadService(leadRepo, activityRepo, nil)

	activities, err := service.ListActivity(ctx, id)

	assert.Nil(t, activities)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}
