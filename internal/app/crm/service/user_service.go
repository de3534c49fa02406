package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"

	"github.com/google/uuid"
)

// UserService обрабатывает бизнес-логику управления пользователями
type UserService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	bcryptCost int
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, bcryptCost int) *UserService {
	return &UserService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		bcryptCost: bcryptCost,
	}
}

// Create создает пользователя с профилем и набором ролей.
// Несуществующий role id - ошибка, пользователь не создается
func (s *UserService) Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if err := s.validateRoleIDs(ctx, req.Roles); err != nil {
		return nil, err
	}

	passwordHash, err := util.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsActive:     true,
		Profile: &entity.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		},
	}
	user.Profile.UserID = user.ID

	if err := s.userRepo.Create(ctx, user, req.Roles); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info().Str("email", user.Email).Str("user_id", user.ID.String()).Msg("user created")

	return s.userRepo.GetByID(ctx, user.ID)
}

// GetByID получает пользователя с профилем и ролями
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Update обновляет пользователя. Отсутствующее поле roles набор не меняет,
// присланный набор заменяет старый целиком
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		passwordHash, err := util.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if user.Profile != nil {
		if req.FirstName != nil {
			user.Profile.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.Profile.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Profile.Phone = *req.Phone
		}
	}

	if req.Roles != nil {
		if err := s.validateRoleIDs(ctx, *req.Roles); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user, req.Roles); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrForeignKey):
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.userRepo.GetByID(ctx, id)
}

// Delete удаляет пользователя вместе с профилем и связями с ролями
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

// List получает страницу пользователей с поиском по email и имени
func (s *UserService) List(ctx context.Context, filter *entity.FilterQuery) (*entity.UserPage, error) {
	users, total, err := s.userRepo.List(ctx, filter.Offset(), filter.Limit, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &entity.UserPage{
		Records: users,
		Meta:    entity.NewPaginationMeta(total, filter.Page, filter.Limit),
	}, nil
}

// validateRoleIDs проверяет, что все переданные роли существуют
func (s *UserService) validateRoleIDs(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	count, err := s.roleRepo.CountByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}
	if count != int64(len(ids)) {
		return ErrRoleNotFound
	}

	return nil
}
