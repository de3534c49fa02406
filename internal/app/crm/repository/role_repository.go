package repository

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"

	"gorm.io/gorm"
)

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository создает новый репозиторий ролей
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Create создает роль и привязывает к ней разрешения в одной транзакции.
// Несуществующий permission id роняет всю операцию целиком (ErrForeignKey),
// частичной привязки не бывает
func (r *roleRepository) Create(ctx context.Context, role *entity.Role, permissionIDs []int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Create(role).Error; err != nil {
			return err
		}

		if len(permissionIDs) == 0 {
			return nil
		}

		links := make([]entity.RolePermission, 0, len(permissionIDs))
		for _, pid := range permissionIDs {
			links = append(links, entity.RolePermission{RoleID: role.ID, PermissionID: pid})
		}

		return tx.Create(&links).Error
	})

	if err != nil {
		return fmt.Errorf("failed to create role: %w", translateDBError(err))
	}

	return nil
}

// GetByID получает роль с разрешениями
func (r *roleRepository) GetByID(ctx context.Context, id int) (*entity.Role, error) {
	var role entity.Role
	result := r.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get role by id: %w", result.Error)
	}

	return &role, nil
}

// GetByName получает роль по имени (точное совпадение, с учетом регистра)
func (r *roleRepository) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	var role entity.Role
	result := r.db.WithContext(ctx).Preload("Permissions").First(&role, "name = ?", name)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get role by name: %w", result.Error)
	}

	return &role, nil
}

// List получает все роли с разрешениями
func (r *roleRepository) List(ctx context.Context) ([]entity.Role, error) {
	var roles []entity.Role
	result := r.db.WithContext(ctx).Preload("Permissions").Order("id").Find(&roles)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to list roles: %w", result.Error)
	}

	return roles, nil
}

// Update обновляет роль. Если permissionIDs != nil, набор связей
// полностью заменяется: delete-all, затем insert-all, в одной транзакции
func (r *roleRepository) Update(ctx context.Context, role *entity.Role, permissionIDs *[]int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Role{}).Where("id = ?", role.ID).Update("name", role.Name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if permissionIDs == nil {
			return nil
		}

		if err := tx.Where("role_id = ?", role.ID).Delete(&entity.RolePermission{}).Error; err != nil {
			return err
		}

		if len(*permissionIDs) == 0 {
			return nil
		}

		links := make([]entity.RolePermission, 0, len(*permissionIDs))
		for _, pid := range *permissionIDs {
			links = append(links, entity.RolePermission{RoleID: role.ID, PermissionID: pid})
		}

		return tx.Create(&links).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update role: %w", translateDBError(err))
	}

	return nil
}

// Delete удаляет роль с трехшаговой проверкой безопасности внутри
// одной транзакции: существование, счетчик назначений, удаление связей и роли.
// Транзакция исключает гонку с параллельным назначением роли пользователю.
// Возвращает удаленную роль с её разрешениями
func (r *roleRepository) Delete(ctx context.Context, id int) (*entity.Role, error) {
	var role entity.Role

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get role: %w", err)
		}

		var assigned int64
		if err := tx.Model(&entity.UserRole{}).Where("role_id = ?", id).Count(&assigned).Error; err != nil {
			return fmt.Errorf("failed to count role assignments: %w", err)
		}

		if assigned > 0 {
			return &RoleAssignedError{Count: assigned}
		}

		if err := tx.Where("role_id = ?", id).Delete(&entity.RolePermission{}).Error; err != nil {
			return fmt.Errorf("failed to delete role permissions: %w", err)
		}

		if err := tx.Delete(&entity.Role{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &role, nil
}

// CountUsers возвращает количество пользователей с данной ролью
func (r *roleRepository) CountUsers(ctx context.Context, roleID int) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.UserRole{}).Where("role_id = ?", roleID).Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count role users: %w", result.Error)
	}

	return count, nil
}

// CountByIDs возвращает количество существующих ролей из списка id.
// Используется для валидации ролей при создании/обновлении пользователя
func (r *roleRepository) CountByIDs(ctx context.Context, ids []int) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Role{}).Where("id IN ?", ids).Count(&count)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to count roles: %w", result.Error)
	}

	return count, nil
}

// EnsurePermissions добавляет роли недостающие связи с разрешениями,
// не трогая уже существующие. Используется сидом для root-роли
func (r *roleRepository) EnsurePermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []entity.RolePermission
		if err := tx.Where("role_id = ?", roleID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to list role permissions: %w", err)
		}

		present := make(map[int]struct{}, len(existing))
		for _, link := range existing {
			present[link.PermissionID] = struct{}{}
		}

		var missing []entity.RolePermission
		for _, pid := range permissionIDs {
			if _, ok := present[pid]; !ok {
				missing = append(missing, entity.RolePermission{RoleID: roleID, PermissionID: pid})
			}
		}

		if len(missing) == 0 {
			return nil
		}

		if err := tx.Create(&missing).Error; err != nil {
			return fmt.Errorf("failed to attach permissions: %w", translateDBError(err))
		}

		return nil
	})
}
