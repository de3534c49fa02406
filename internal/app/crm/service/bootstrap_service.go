package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/config"
	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"

	"github.com/google/uuid"
)

// BootstrapService создает первого root-пользователя из окружения.
// Без него в свежей базе нет ни одной учетки, способной пройти
// permission guard
type BootstrapService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	cfg        config.SuperAdminConfig
	bcryptCost int
}

// NewBootstrapService создает новый сервис bootstrap
func NewBootstrapService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	cfg config.SuperAdminConfig,
	bcryptCost int,
) *BootstrapService {
	return &BootstrapService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		cfg:        cfg,
		bcryptCost: bcryptCost,
	}
}

// Run создает root-пользователя с ролью SUPER ADMIN.
// Шаг пропускается без ошибки, если учетные данные не заданы,
// роль еще не создана сидом или пользователь уже существует
func (s *BootstrapService) Run(ctx context.Context) error {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		logger.Info().Msg("super admin credentials are not set, bootstrap skipped")
		return nil
	}

	role, err := s.roleRepo.GetByName(ctx, util.SuperAdminRoleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn().Msg("super admin role does not exist, bootstrap skipped")
			return nil
		}
		return fmt.Errorf("failed to get super admin role: %w", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, s.cfg.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check super admin user: %w", err)
	}
	if existing != nil {
		logger.Info().Str("email", s.cfg.Email).Msg("super admin user already exists, bootstrap skipped")
		return nil
	}

	passwordHash, err := util.HashPassword(s.cfg.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        s.cfg.Email,
		PasswordHash: passwordHash,
		IsActive:     true,
		Profile: &entity.Profile{
			FirstName: s.cfg.FirstName,
			LastName:  s.cfg.LastName,
		},
	}
	user.Profile.UserID = user.ID

	if err := s.userRepo.Create(ctx, user, []int{role.ID}); err != nil {
		return fmt.Errorf("failed to create super admin user: %w", err)
	}

	logger.Info().Str("email", user.Email).Msg("super admin user created")
	return nil
}
