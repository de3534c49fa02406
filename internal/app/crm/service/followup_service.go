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

// Лимит одного прохода сканера напоминаний
const dueBatchSize = 100

// FollowUpService обрабатывает бизнес-логику follow-up контактов
type FollowUpService struct {
	followUpRepo repository.FollowUpRepository
	leadRepo     repository.LeadRepository
	producer     MessagePublisher
}

// NewFollowUpService создает новый сервис follow-up.
// producer может быть nil, тогда напоминания не публикуются
func NewFollowUpService(
	followUpRepo repository.FollowUpRepository,
	leadRepo repository.LeadRepository,
	producer MessagePublisher,
) *FollowUpService {
	return &FollowUpService{
		followUpRepo: followUpRepo,
		leadRepo:     leadRepo,
		producer:     producer,
	}
}

// Create создает follow-up по существующему лиду
func (s *FollowUpService) Create(ctx context.Context, req *entity.CreateFollowUpRequest) (*entity.FollowUp, error) {
	if _, err := s.leadRepo.GetByID(ctx, req.LeadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	followUp := &entity.FollowUp{
		ID:     uuid.New(),
		LeadID: req.LeadID,
		DueAt:  req.DueAt,
		Note:   req.Note,
		Done:   false,
	}

	if err := s.followUpRepo.Create(ctx, followUp); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to create follow-up: %w", err)
	}

	return followUp, nil
}

// GetByID получает follow-up по ID
func (s *FollowUpService) GetByID(ctx context.Context, id uuid.UUID) (*entity.FollowUp, error) {
	followUp, err := s.followUpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFollowUpNotFound
		}
		return nil, fmt.Errorf("failed to get follow-up: %w", err)
	}
	return followUp, nil
}

// ListByLead получает все follow-up лида
func (s *FollowUpService) ListByLead(ctx context.Context, leadID uuid.UUID) ([]entity.FollowUp, error) {
	followUps, err := s.followUpRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	return followUps, nil
}

// Update обновляет follow-up; done=true закрывает напоминание
func (s *FollowUpService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateFollowUpRequest) (*entity.FollowUp, error) {
	followUp, err := s.followUpRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFollowUpNotFound
		}
		return nil, fmt.Errorf("failed to get follow-up: %w", err)
	}

	if req.DueAt != nil {
		followUp.DueAt = *req.DueAt
	}
	if req.Note != nil {
		followUp.Note = *req.Note
	}
	if req.Done != nil {
		followUp.Done = *req.Done
	}

	if err := s.followUpRepo.Update(ctx, followUp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFollowUpNotFound
		}
		return nil, fmt.Errorf("failed to update follow-up: %w", err)
	}

	return followUp, nil
}

// Delete удаляет follow-up
func (s *FollowUpService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.followUpRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFollowUpNotFound
		}
		return fmt.Errorf("failed to delete follow-up: %w", err)
	}
	return nil
}

// PublishDueReminders публикует напоминания по follow-up с наступившим
// сроком и закрывает их. Вызывается cron-планировщиком.
// Возвращает количество отправленных напоминаний
func (s *FollowUpService) PublishDueReminders(ctx context.Context) (int, error) {
	due, err := s.followUpRepo.ListDue(ctx, time.Now(), dueBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due follow-ups: %w", err)
	}

	sent := 0
	for i := range due {
		followUp := &due[i]

		event := entity.FollowUpReminderEvent{
			EventType:  entity.EventTypeFollowUpDue,
			FollowUpID: followUp.ID,
			LeadID:     followUp.LeadID,
			DueAt:      followUp.DueAt,
			Note:       followUp.Note,
			Timestamp:  time.Now(),
		}

		payload, err := json.Marshal(event)
		if err != nil {
			logger.Error().Err(err).Msg("failed to marshal follow-up reminder")
			continue
		}

		if s.producer != nil {
			if err := s.producer.PublishMessage(ctx, followUp.LeadID.String(), payload); err != nil {
				// Не закрываем follow-up, попробуем на следующем проходе
				logger.Error().Err(err).Str("follow_up_id", followUp.ID.String()).Msg("failed to publish follow-up reminder")
				continue
			}
		}

		followUp.Done = true
		if err := s.followUpRepo.Update(ctx, followUp); err != nil {
			logger.Error().Err(err).Str("follow_up_id", followUp.ID.String()).Msg("failed to close follow-up")
			continue
		}

		metrics.FollowUpReminders.Inc()
		sent++
	}

	return sent, nil
}
