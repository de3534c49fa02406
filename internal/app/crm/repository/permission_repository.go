package repository

import (
	"context"
	"fmt"

	"clinicrm/internal/app/crm/entity"

	"gorm.io/gorm"
)

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository создает новый репозиторий каталога разрешений
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// List получает страницу каталога разрешений
func (r *permissionRepository) List(ctx context.Context, offset, limit int) ([]entity.Permission, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Permission{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count permissions: %w", err)
	}

	var permissions []entity.Permission
	result := r.db.WithContext(ctx).Order("name").Offset(offset).Limit(limit).Find(&permissions)

	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list permissions: %w", result.Error)
	}

	return permissions, total, nil
}

// ListAll получает весь каталог разрешений (для сида root-роли)
func (r *permissionRepository) ListAll(ctx context.Context) ([]entity.Permission, error) {
	var permissions []entity.Permission
	result := r.db.WithContext(ctx).Order("name").Find(&permissions)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", result.Error)
	}

	return permissions, nil
}

// EnsureCatalog досоздает недостающие записи каталога.
// Существующие записи не трогаются, операция идемпотентна
func (r *permissionRepository) EnsureCatalog(ctx context.Context, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []entity.Permission
		if err := tx.Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to list permissions: %w", err)
		}

		present := make(map[string]struct{}, len(existing))
		for _, p := range existing {
			present[p.Name] = struct{}{}
		}

		var missing []entity.Permission
		for _, name := range names {
			if _, ok := present[name]; !ok {
				missing = append(missing, entity.Permission{Name: name})
			}
		}

		if len(missing) == 0 {
			return nil
		}

		if err := tx.Create(&missing).Error; err != nil {
			return fmt.Errorf("failed to seed permissions: %w", translateDBError(err))
		}

		return nil
	})
}
