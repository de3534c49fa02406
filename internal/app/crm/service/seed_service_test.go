package service

import (
	"context"
	"testing"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/repository/mocks"
	"clinicrm/internal/app/crm/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clinicrm/internal/app/crm/config"
)

// ==================== SeedService Tests ====================

func TestSeedService_Run_FreshDatabase(t *testing.T) {
	// Arrange
	ctx := context.Background()
	permissionRepo := new(mocks.MockPermissionRepository)
	roleRepo := new(mocks.MockRoleRepository)

	permissionRepo.On("EnsureCatalog", ctx, util.AllPermissions()).Return(nil)
	roleRepo.On("GetByName", ctx, util.SuperAdminRoleName).Return(nil, repository.ErrNotFound)
	roleRepo.On("Create", ctx, mock.MatchedBy(func(r *entity.Role) bool {
		return r.Name == util.SuperAdminRoleName
	}), []int(nil)).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Role).ID = 1
	}).Return(nil)
	permissionRepo.On("ListAll", ctx).Return([]entity.Permission{
		{ID: 1, Name: "lead:read"},
		{ID: 2, Name: "lead:create"},
	}, nil)
	roleRepo.On("EnsurePermissions", ctx, 1, []int{1, 2}).Return(nil)

	service := NewSeedService(permissionRepo, roleRepo)

	// Act
	err := service.Run(ctx)

	// Assert
	require.NoError(t, err)
	permissionRepo.AssertExpectations(t)
	roleRepo.AssertExpectations(t)
}

// Повторный запуск не создает роль заново
func TestSeedService_Run_Idempotent(t *testing.T) {
	ctx := context.Background()
	permissionRepo := new(mocks.MockPermissionRepository)
	roleRepo := new(mocks.MockRoleRepository)

	permissionRepo.On("EnsureCatalog", ctx, util.AllPermissions()).Return(nil)
	roleRepo.On("GetByName", ctx, util.SuperAdminRoleName).
		Return(&entity.Role{ID: 1, Name: util.SuperAdminRoleName}, nil)
	permissionRepo.On("ListAll", ctx).Return([]entity.Permission{{ID: 1, Name: "lead:read"}}, nil)
	roleRepo.On("EnsurePermissions", ctx, 1, []int{1}).Return(nil)

	service := NewSeedService(permissionRepo, roleRepo)

	require.NoError(t, service.Run(ctx))
	roleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== BootstrapService Tests ====================

func TestBootstrapService_Run_CreatesSuperAdmin(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	cfg := config.SuperAdminConfig{
		Email:     "root@clinic.ru",
		Password:  "root-password",
		FirstName: "Root",
		LastName:  "Admin",
	}

	roleRepo.On("GetByName", ctx, util.SuperAdminRoleName).
		Return(&entity.Role{ID: 1, Name: util.SuperAdminRoleName}, nil)
	userRepo.On("GetByEmail", ctx, "root@clinic.ru").Return(nil, repository.ErrNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "root@clinic.ru" && u.IsActive &&
			util.CheckPassword("root-password", u.PasswordHash)
	}), []int{1}).Return(nil)

	service := NewBootstrapService(userRepo, roleRepo, cfg, bcrypt.MinCost)

	// Act
	err := service.Run(ctx)

	// Assert
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestBootstrapService_Run_SkippedWithoutCredentials(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	service := NewBootstrapService(userRepo, roleRepo, config.SuperAdminConfig{}, bcrypt.MinCost)

	require.NoError(t, service.Run(ctx))
	roleRepo.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// Отсутствие роли не роняет старт сервиса
func TestBootstrapService_Run_SkippedWithoutRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	cfg := config.SuperAdminConfig{Email: "root@clinic.ru", Password: "root-password"}
	roleRepo.On("GetByName", ctx, util.SuperAdminRoleName).Return(nil, repository.ErrNotFound)

	service := NewBootstrapService(userRepo, roleRepo, cfg, bcrypt.MinCost)

	require.NoError(t, service.Run(ctx))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestBootstrapService_Run_SkippedWhenUserExists(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	cfg := config.SuperAdminConfig{Email: "root@clinic.ru", Password: "root-password"}
	roleRepo.On("GetByName", ctx, util.SuperAdminRoleName).
		Return(&entity.Role{ID: 1, Name: util.SuperAdminRoleName}, nil)
	userRepo.On("GetByEmail", ctx, "root@clinic.ru").
		Return(&entity.User{ID: uuid.New(), Email: "root@clinic.ru"}, nil)

	service := NewBootstrapService(userRepo, roleRepo, cfg, bcrypt.MinCost)

	require.NoError(t, service.Run(ctx))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}
