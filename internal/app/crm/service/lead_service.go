package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/pkg/logger"
	"clinicrm/pkg/metrics"

	"github.com/google/uuid"
)

// LeadService обрабатывает бизнес-логику работы с лидами.
// Каждая мутация пишет запись в журнал активностей и публикует
// событие в Kafka; сбой журнала или брокера операцию не откатывает
type LeadService struct {
	leadRepo     repository.LeadRepository
	activityRepo repository.LeadActivityRepository
	producer     MessagePublisher
}

// NewLeadService создает новый сервис лидов.
// producer может быть nil, тогда события не публикуются
func NewLeadService(
	leadRepo repository.LeadRepository,
	activityRepo repository.LeadActivityRepository,
	producer MessagePublisher,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		activityRepo: activityRepo,
		producer:     producer,
	}
}

// Create создает нового лида в статусе new
func (s *LeadService) Create(ctx context.Context, actorID uuid.UUID, req *entity.CreateLeadRequest) (*entity.Lead, error) {
	lead := &entity.Lead{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Status:   entity.LeadStatusNew,
		BranchID: req.BranchID,
		DoctorID: req.DoctorID,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	metrics.LeadsCreated.Inc()
	s.recordActivity(ctx, lead.ID, actorID, "created", "lead created")
	s.publishEvent(ctx, entity.EventTypeLeadCreated, lead, actorID)

	return lead, nil
}

// GetByID получает лида по ID
func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// Update обновляет лида. Смена статуса отдельно отмечается в журнале
func (s *LeadService) Update(ctx context.Context, actorID, id uuid.UUID, req *entity.UpdateLeadRequest) (*entity.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	oldStatus := lead.Status

	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.BranchID != nil {
		lead.BranchID = req.BranchID
	}
	if req.DoctorID != nil {
		lead.DoctorID = req.DoctorID
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrLeadNotFound
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	description := "lead updated"
	if req.Status != nil && oldStatus != lead.Status {
		description = fmt.Sprintf("status changed: %s -> %s", oldStatus, lead.Status)
	}
	s.recordActivity(ctx, lead.ID, actorID, "updated", description)
	s.publishEvent(ctx, entity.EventTypeLeadUpdated, lead, actorID)

	return lead, nil
}

// Delete удаляет лида
func (s *LeadService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to get lead: %w", err)
	}

	if err := s.leadRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	s.publishEvent(ctx, entity.EventTypeLeadDeleted, lead, actorID)
	return nil
}

// List получает страницу лидов с поиском
func (s *LeadService) List(ctx context.Context, filter *entity.FilterQuery) (*entity.LeadPage, error) {
	leads, total, err := s.leadRepo.List(ctx, filter.Offset(), filter.Limit, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return &entity.LeadPage{
		Records: leads,
		Meta:    entity.NewPaginationMeta(total, filter.Page, filter.Limit),
	}, nil
}

// ListActivity получает журнал активностей лида
func (s *LeadService) ListActivity(ctx context.Context, leadID uuid.UUID) ([]entity.LeadActivity, error) {
	if _, err := s.leadRepo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	activities, err := s.activityRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lead activities: %w", err)
	}
	return activities, nil
}

func (s *LeadService) recordActivity(ctx context.Context, leadID, actorID uuid.UUID, action, description string) {
	activity := &entity.LeadActivity{
		ID:          uuid.New(),
		LeadID:      leadID,
		ActorID:     actorID,
		Action:      action,
		Description: description,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		logger.Error().Err(err).Str("lead_id", leadID.String()).Msg("failed to record lead activity")
	}
}

func (s *LeadService) publishEvent(ctx context.Context, eventType string, lead *entity.Lead, actorID uuid.UUID) {
	if s.producer == nil {
		return
	}

	event := entity.LeadEvent{
		EventType: eventType,
		LeadID:    lead.ID,
		Name:      lead.Name,
		Status:    lead.Status,
		ActorID:   actorID,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal lead event")
		return
	}

	if err := s.producer.PublishMessage(ctx, lead.ID.String(), payload); err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish lead event")
	}
}
