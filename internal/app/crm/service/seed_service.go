package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"
)

// SeedService наполняет каталог разрешений и создает root-роль.
// Запускается при каждом старте сервиса, все шаги идемпотентны
type SeedService struct {
	permissionRepo repository.PermissionRepository
	roleRepo       repository.RoleRepository
}

// NewSeedService создает новый сервис сида
func NewSeedService(permissionRepo repository.PermissionRepository, roleRepo repository.RoleRepository) *SeedService {
	return &SeedService{
		permissionRepo: permissionRepo,
		roleRepo:       roleRepo,
	}
}

// Run досоздает недостающие разрешения каталога, роль SUPER ADMIN
// и выдает ей полный набор разрешений. Новые разрешения, появившиеся
// в каталоге после обновления сервиса, роль получает автоматически
func (s *SeedService) Run(ctx context.Context) error {
	if err := s.permissionRepo.EnsureCatalog(ctx, util.AllPermissions()); err != nil {
		return fmt.Errorf("failed to seed permission catalog: %w", err)
	}

	role, err := s.roleRepo.GetByName(ctx, util.SuperAdminRoleName)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to get super admin role: %w", err)
		}

		role = &entity.Role{Name: util.SuperAdminRoleName}
		if err := s.roleRepo.Create(ctx, role, nil); err != nil {
			return fmt.Errorf("failed to create super admin role: %w", err)
		}
		logger.Info().Str("role", role.Name).Msg("super admin role created")
	}

	permissions, err := s.permissionRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list permissions: %w", err)
	}

	permissionIDs := make([]int, len(permissions))
	for i, p := range permissions {
		permissionIDs[i] = p.ID
	}

	if err := s.roleRepo.EnsurePermissions(ctx, role.ID, permissionIDs); err != nil {
		return fmt.Errorf("failed to attach permissions to super admin role: %w", err)
	}

	logger.Info().Int("permissions", len(permissionIDs)).Msg("seed completed")
	return nil
}
