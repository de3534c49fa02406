package repository

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository создает новый репозиторий лидов
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create создает нового лида
func (r *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("failed to create lead: %w", translateDBError(err))
	}
	return nil
}

// GetByID получает лида по ID
func (r *leadRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	var lead entity.Lead
	result := r.db.WithContext(ctx).First(&lead, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead by id: %w", result.Error)
	}

	return &lead, nil
}

// Update обновляет лида
func (r *leadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	result := r.db.WithContext(ctx).Model(lead).Where("id = ?", lead.ID).Updates(map[string]interface{}{
		"name":      lead.Name,
		"email":     lead.Email,
		"phone":     lead.Phone,
		"source":    lead.Source,
		"status":    lead.Status,
		"branch_id": lead.BranchID,
		"doctor_id": lead.DoctorID,
	})

	if result.Error != nil {
		return fmt.Errorf("failed to update lead: %w", translateDBError(result.Error))
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет лида
func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Lead{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete lead: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// List получает страницу лидов с поиском по имени, email и телефону
func (r *leadRepository) List(ctx context.Context, offset, limit int, search string) ([]entity.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Lead{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	var leads []entity.Lead
	result := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&leads)

	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", result.Error)
	}

	return leads, total, nil
}

type leadActivityRepository struct {
	db *gorm.DB
}

// NewLeadActivityRepository создает новый репозиторий журнала активностей
func NewLeadActivityRepository(db *gorm.DB) LeadActivityRepository {
	return &leadActivityRepository{db: db}
}

// Create добавляет запись в журнал активностей лида
func (r *leadActivityRepository) Create(ctx context.Context, activity *entity.LeadActivity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create lead activity: %w", translateDBError(err))
	}
	return nil
}

// GetByID получает запись журнала по ID
func (r *leadActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LeadActivity, error) {
	var activity entity.LeadActivity
	result := r.db.WithContext(ctx).First(&activity, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead activity: %w", result.Error)
	}

	return &activity, nil
}

// ListByLead получает журнал активностей лида, новые записи первыми
func (r *leadActivityRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]entity.LeadActivity, error) {
	var activities []entity.LeadActivity
	result := r.db.WithContext(ctx).Where("lead_id = ?", leadID).Order("created_at DESC").Find(&activities)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list lead activities: %w", result.Error)
	}

	return activities, nil
}
