package repository

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository создает новый репозиторий филиалов
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	if err := r.db.WithContext(ctx).Create(branch).Error; err != nil {
		return fmt.Errorf("failed to create branch: %w", translateDBError(err))
	}
	return nil
}

func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	var branch entity.Branch
	result := r.db.WithContext(ctx).First(&branch, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get branch by id: %w", result.Error)
	}

	return &branch, nil
}

func (r *branchRepository) List(ctx context.Context) ([]entity.Branch, error) {
	var branches []entity.Branch
	result := r.db.WithContext(ctx).Order("name").Find(&branches)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list branches: %w", result.Error)
	}

	return branches, nil
}

func (r *branchRepository) Update(ctx context.Context, branch *entity.Branch) error {
	result := r.db.WithContext(ctx).Model(branch).Where("id = ?", branch.ID).Updates(map[string]interface{}{
		"name":    branch.Name,
		"address": branch.Address,
		"phone":   branch.Phone,
	})

	if result.Error != nil {
		return fmt.Errorf("failed to update branch: %w", translateDBError(result.Error))
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Branch{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete branch: %w", translateDBError(result.Error))
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
