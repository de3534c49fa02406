package service

import (
	"context"
	"testing"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/mock"
)

// ==================== Create Tests ====================

func TestRoleService_Create_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	roleRepo.On("GetByName", ctx, "manager").Return(nil, repository.ErrNotFound)
	roleRepo.On("Create", ctx, mock.AnythingOfType("*entity.Role"), []int{1, 2}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Role).ID = 7
		}).
		Return(nil)
	roleRepo.On("GetByID", ctx, 7).Return(&entity.Role{
		ID:   7,
		Name: "manager",
		Permissions: []entity.Permission{
			{ID: 1, Name: "lead:read"},
			{ID: 2, Name: "lead:create"},
		},
	}, nil)

	service := NewRoleService(roleRepo)

	// Act
	role, err := service.Create(ctx, &entity.CreateRoleRequest{
		Name:        "manager",
		Permissions: []int{1, 2},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, role.ID)
	assert.Len(t, role.Permissions, 2)

	roleRepo.AssertExpectations(t)
}

func TestRoleService_Create_DuplicateName(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	roleRepo.On("GetByName", ctx, "manager").Return(&entity.Role{ID: 1, Name: "manager"}, nil)

	service := NewRoleService(roleRepo)

	role, err := service.Create(ctx, &entity.CreateRoleRequest{Name: "manager"})

	assert.Nil(t, role)
	assert.ErrorIs(t, err, ErrRoleExists)
}

// Несуществующий permission id отменяет создание роли целиком
func TestRoleService_Create_UnknownPermission(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	roleRepo.On("GetByName", ctx, "manager").Return(nil, repository.ErrNotFound)
	roleRepo.On("Create", ctx, mock.AnythingOfType("*entity.Role"), []int{999}).
		Return(repository.ErrForeignKey)

	service := NewRoleService(roleRepo)

	role, err := service.Create(ctx, &entity.CreateRoleRequest{
		Name:        "manager",
		Permissions: []int{999},
	})

	assert.Nil(t, role)
	assert.ErrorIs(t, err, ErrPermissionNotFound)
}

// ==================== Update Tests ====================

func TestRoleService_Update_ReplacePermissions(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	permissions := []int{3}
	roleRepo.On("GetByID", ctx, 7).Return(&entity.Role{ID: 7, Name: "manager"}, nil).Once()
	roleRepo.On("Update", ctx, mock.AnythingOfType("*entity.Role"), &permissions).Return(nil)
	roleRepo.On("GetByID", ctx, 7).Return(&entity.Role{
		ID:          7,
		Name:        "manager",
		Permissions: []entity.Permission{{ID: 3, Name: "lead:update"}},
	}, nil).Once()

	service := NewRoleService(roleRepo)

	role, err := service.Update(ctx, 7, &entity.UpdateRoleRequest{Permissions: &permissions})

	require.NoError(t, err)
	assert.Len(t, role.Permissions, 1)
	assert.Equal(t, "lead:update", role.Permissions[0].Name)
}

// Отсутствующее поле permissions набор не трогает
func TestRoleService_Update_NameOnly(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	newName := "senior manager"
	roleRepo.On("GetByID", ctx, 7).Return(&entity.Role{ID: 7, Name: "manager"}, nil).Once()
	roleRepo.On("Update", ctx, mock.MatchedBy(func(r *entity.Role) bool {
		return r.Name == "senior manager"
	}), (*[]int)(nil)).Return(nil)
	roleRepo.On("GetByID", ctx, 7).Return(&entity.Role{ID: 7, Name: "senior manager"}, nil).Once()

	service := NewRoleService(roleRepo)

	role, err := service.Update(ctx, 7, &entity.UpdateRoleRequest{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, "senior manager", role.Name)

	roleRepo.AssertExpectations(t)
}

func TestRoleService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	roleRepo.On("GetByID", ctx, 999).Return(nil, repository.ErrNotFound)

	service := NewRoleService(roleRepo)

	role, err := service.Update(ctx, 999, &entity.UpdateRoleRequest{})

	assert.Nil(t, role)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

// ==================== Delete Tests ====================

// Удаление возвращает удаленную роль с её разрешениями
func TestRoleService_Delete_Success(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	deleted := &entity.Role{
		ID:   7,
		Name: "registrar",
		Permissions: []entity.Permission{
			{ID: 1, Name: "lead:read"},
		},
	}
	roleRepo.On("Delete", ctx, 7).Return(deleted, nil)

	service := NewRoleService(roleRepo)

	role, err := service.Delete(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, deleted, role)
	roleRepo.AssertExpectations(t)
}

// Роль, назначенная пользователям, не удаляется; в ошибке есть их количество
func TestRoleService_Delete_AssignedToUsers(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	roleRepo.On("Delete", ctx, 7).Return(nil, &repository.RoleAssignedError{Count: 3})

	service := NewRoleService(roleRepo)

	role, err := service.Delete(ctx, 7)

	assert.Nil(t, role)
	var assigned *RoleAssignedError
	require.ErrorAs(t, err, &assigned)
	assert.Equal(t, int64(3), assigned.Count)
}

func TestRoleService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	roleRepo := new(mocks.MockRoleRepository)

	roleRepo.On("Delete", ctx, 999).Return(nil, repository.ErrNotFound)

	service := NewRoleService(roleRepo)

	role, err := service.Delete(ctx, 999)

	assert.Nil(t, role)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}
