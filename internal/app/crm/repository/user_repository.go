package repository

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create создает пользователя вместе с профилем и связями с ролями
// в одной транзакции. Дубликат email - ErrDuplicate,
// несуществующая роль - ErrForeignKey
func (r *userRepository) Create(ctx context.Context, user *entity.User, roleIDs []int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(user).Error; err != nil {
			return err
		}

		if len(roleIDs) == 0 {
			return nil
		}

		links := make([]entity.UserRole, 0, len(roleIDs))
		for _, rid := range roleIDs {
			links = append(links, entity.UserRole{UserID: user.ID, RoleID: rid})
		}

		return tx.Create(&links).Error
	})

	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateDBError(err))
	}

	return nil
}

// GetByID получает пользователя с профилем и ролями
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).Preload("Profile").Preload("Roles").First(&user, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", result.Error)
	}

	return &user, nil
}

// GetByEmail получает пользователя с профилем по email.
// Роли здесь не грузятся: при логине граф авторизации не нужен
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).Preload("Profile").First(&user, "email = ?", email)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", result.Error)
	}

	return &user, nil
}

// GetWithAuthorization загружает полный граф авторизации:
// роли пользователя и разрешения каждой роли.
// Вызывается на каждый запрос, поэтому изменения ролей
// действуют без повторного логина
func (r *userRepository) GetWithAuthorization(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	result := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Roles.Permissions").
		First(&user, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load authorization graph: %w", result.Error)
	}

	return &user, nil
}

// Update обновляет пользователя и профиль. Если roleIDs != nil,
// набор ролей полностью заменяется (delete-all + insert-all),
// зеркально замене разрешений роли
func (r *userRepository) Update(ctx context.Context, user *entity.User, roleIDs *[]int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"is_active":     user.IsActive,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if user.Profile != nil {
			if err := tx.Model(&entity.Profile{}).Where("user_id = ?", user.ID).Updates(map[string]interface{}{
				"first_name":  user.Profile.FirstName,
				"last_name":   user.Profile.LastName,
				"phone":       user.Profile.Phone,
				"avatar_path": user.Profile.AvatarPath,
			}).Error; err != nil {
				return err
			}
		}

		if roleIDs == nil {
			return nil
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&entity.UserRole{}).Error; err != nil {
			return err
		}

		if len(*roleIDs) == 0 {
			return nil
		}

		links := make([]entity.UserRole, 0, len(*roleIDs))
		for _, rid := range *roleIDs {
			links = append(links, entity.UserRole{UserID: user.ID, RoleID: rid})
		}

		return tx.Create(&links).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user: %w", translateDBError(err))
	}

	return nil
}

// Delete удаляет пользователя вместе с профилем и связями с ролями
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&entity.UserRole{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&entity.Profile{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// List получает страницу пользователей с поиском по email и имени
func (r *userRepository) List(ctx context.Context, offset, limit int, search string) ([]entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.User{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
			Where("users.email ILIKE ? OR profiles.first_name ILIKE ? OR profiles.last_name ILIKE ? OR profiles.phone ILIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []entity.User
	result := query.
		Preload("Profile").
		Preload("Roles").
		Order("users.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users)

	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", result.Error)
	}

	return users, total, nil
}
