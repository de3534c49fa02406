package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type followUpRepository struct {
	db *gorm.DB
}

// NewFollowUpRepository создает новый репозиторий follow-up
func NewFollowUpRepository(db *gorm.DB) FollowUpRepository {
	return &followUpRepository{db: db}
}

// Create создает follow-up. Несуществующий лид - ErrForeignKey
func (r *followUpRepository) Create(ctx context.Context, followUp *entity.FollowUp) error {
	if err := r.db.WithContext(ctx).Create(followUp).Error; err != nil {
		return fmt.Errorf("failed to create follow-up: %w", translateDBError(err))
	}
	return nil
}

func (r *followUpRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FollowUp, error) {
	var followUp entity.FollowUp
	result := r.db.WithContext(ctx).First(&followUp, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get follow-up by id: %w", result.Error)
	}

	return &followUp, nil
}

func (r *followUpRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]entity.FollowUp, error) {
	var followUps []entity.FollowUp
	result := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Order("due_at").Find(&followUps)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", result.Error)
	}

	return followUps, nil
}

// ListDue получает незакрытые follow-up с наступившим сроком.
// Используется cron-сканером напоминаний
func (r *followUpRepository) ListDue(ctx context.Context, before time.Time, limit int) ([]entity.FollowUp, error) {
	var followUps []entity.FollowUp
	result := r.db.WithContext(ctx).
		Where("done = false AND due_at <= ?", before).
		Order("due_at").
		Limit(limit).
		Find(&followUps)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list due follow-ups: %w", result.Error)
	}

	return followUps, nil
}

func (r *followUpRepository) Update(ctx context.Context, followUp *entity.FollowUp) error {
	result := r.db.WithContext(ctx).Model(followUp).Where("id = ?", followUp.ID).Updates(map[string]interface{}{
		"due_at": followUp.DueAt,
		"note":   followUp.Note,
		"done":   followUp.Done,
	})

	if result.Error != nil {
		return fmt.Errorf("failed to update follow-up: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *followUpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.FollowUp{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete follow-up: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
