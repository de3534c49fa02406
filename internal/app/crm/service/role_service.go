package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"

	"clinicrm/pkg/logger"
)

// RoleService обрабатывает бизнес-логику управления ролями
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService создает новый сервис ролей
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// Create создает роль с набором разрешений.
// Имя роли уникально, несуществующий permission id - ошибка целиком
func (s *RoleService) Create(ctx context.Context, req *entity.CreateRoleRequest) (*entity.Role, error) {
	existing, err := s.roleRepo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}
	if existing != nil {
		return nil, ErrRoleExists
	}

	role := &entity.Role{Name: req.Name}

	if err := s.roleRepo.Create(ctx, role, req.Permissions); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrRoleExists
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	logger.Info().Str("name", role.Name).Int("role_id", role.ID).Msg("role created")

	return s.roleRepo.GetByID(ctx, role.ID)
}

// GetByID получает роль с её разрешениями
func (s *RoleService) GetByID(ctx context.Context, id int) (*entity.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// List получает все роли с разрешениями
func (s *RoleService) List(ctx context.Context) ([]entity.Role, error) {
	roles, err := s.roleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// Update обновляет роль. Отсутствующее поле permissions набор не меняет,
// пустой список очищает его; присланный набор заменяет старый целиком
func (s *RoleService) Update(ctx context.Context, id int, req *entity.UpdateRoleRequest) (*entity.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	if req.Name != nil {
		role.Name = *req.Name
	}

	if err := s.roleRepo.Update(ctx, role, req.Permissions); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoleNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrRoleExists
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return s.roleRepo.GetByID(ctx, id)
}

// Delete удаляет роль вместе со связями роль-разрешение.
// Роль, назначенная хотя бы одному пользователю, не удаляется:
// проверка и удаление идут в одной транзакции репозитория.
// Возвращает удаленную роль
func (s *RoleService) Delete(ctx context.Context, id int) (*entity.Role, error) {
	role, err := s.roleRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}

		var assigned *repository.RoleAssignedError
		if errors.As(err, &assigned) {
			return nil, &RoleAssignedError{Count: assigned.Count}
		}

		return nil, fmt.Errorf("failed to delete role: %w", err)
	}

	logger.Info().Int("role_id", id).Msg("role deleted")
	return role, nil
}
