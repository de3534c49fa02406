package service

import (
	"context"
	"testing"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/repository/mocks"
	"clinicrm/internal/app/crm/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ==================== Create Tests ====================

func TestUserService_Create_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	userRepo.On("GetByEmail", ctx, "new@clinic.ru").Return(nil, repository.ErrNotFound)
	roleRepo.On("CountByIDs", ctx, []int{1}).Return(int64(1), nil)

	var createdID uuid.UUID
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User"), []int{1}).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			createdID = user.ID
			// Пароль не должен сохраняться открытым текстом
			assert.NotEqual(t, "password123", user.PasswordHash)
			assert.True(t, util.CheckPassword("password123", user.PasswordHash))
		}).
		Return(nil)
	userRepo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&entity.User{Email: "new@clinic.ru", IsActive: true}, nil)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	// Act
	user, err := service.Create(ctx, &entity.CreateUserRequest{
		Email:     "new@clinic.ru",
		Password:  "password123",
		FirstName: "Ivan",
		LastName:  "Sidorov",
		Roles:     []int{1},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new@clinic.ru", user.Email)
	assert.NotEqual(t, uuid.Nil, createdID)

	userRepo.AssertExpectations(t)
	roleRepo.AssertExpectations(t)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	userRepo.On("GetByEmail", ctx, "taken@clinic.ru").Return(&entity.User{}, nil)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	user, err := service.Create(ctx, &entity.CreateUserRequest{
		Email:    "taken@clinic.ru",
		Password: "password123",
		Roles:    []int{1},
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserExists)
}

// Несуществующая роль отменяет создание пользователя целиком
func TestUserService_Create_UnknownRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	userRepo.On("GetByEmail", ctx, "new@clinic.ru").Return(nil, repository.ErrNotFound)
	roleRepo.On("CountByIDs", ctx, []int{1, 999}).Return(int64(1), nil)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	user, err := service.Create(ctx, &entity.CreateUserRequest{
		Email:    "new@clinic.ru",
		Password: "password123",
		Roles:    []int{1, 999},
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== Update Tests ====================

func TestUserService_Update_ReplaceRoles(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	id := uuid.New()
	roles := []int{2, 3}

	userRepo.On("GetByID", ctx, id).Return(&entity.User{ID: id, Email: "u@clinic.ru"}, nil).Once()
	roleRepo.On("CountByIDs", ctx, roles).Return(int64(2), nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*entity.User"), &roles).Return(nil)
	userRepo.On("GetByID", ctx, id).Return(&entity.User{
		ID:    id,
		Email: "u@clinic.ru",
		Roles: []entity.Role{{ID: 2}, {ID: 3}},
	}, nil).Once()

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	user, err := service.Update(ctx, id, &entity.UpdateUserRequest{Roles: &roles})

	require.NoError(t, err)
	assert.Len(t, user.Roles, 2)
}

// Отсутствующее поле roles набор ролей не трогает
func TestUserService_Update_WithoutRoles(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	id := uuid.New()
	newEmail := "renamed@clinic.ru"

	userRepo.On("GetByID", ctx, id).Return(&entity.User{ID: id, Email: "u@clinic.ru"}, nil).Once()
	userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "renamed@clinic.ru"
	}), (*[]int)(nil)).Return(nil)
	userRepo.On("GetByID", ctx, id).Return(&entity.User{ID: id, Email: newEmail}, nil).Once()

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	user, err := service.Update(ctx, id, &entity.UpdateUserRequest{Email: &newEmail})

	require.NoError(t, err)
	assert.Equal(t, newEmail, user.Email)
	roleRepo.AssertNotCalled(t, "CountByIDs", mock.Anything, mock.Anything)
}

func TestUserService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	id := uuid.New()
	userRepo.On("GetByID", ctx, id).Return(nil, repository.ErrNotFound)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	user, err := service.Update(ctx, id, &entity.UpdateUserRequest{})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ==================== Delete Tests ====================

func TestUserService_Delete_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	id := uuid.New()
	userRepo.On("Delete", ctx, id).Return(nil)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	require.NoError(t, service.Delete(ctx, id))
	userRepo.AssertExpectations(t)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	id := uuid.New()
	userRepo.On("Delete", ctx, id).Return(repository.ErrNotFound)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	assert.ErrorIs(t, service.Delete(ctx, id), ErrUserNotFound)
}

// ==================== List Tests ====================

func TestUserService_List_Pagination(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	roleRepo := new(mocks.MockRoleRepository)

	users := []entity.User{{Email: "a@clinic.ru"}, {Email: "b@clinic.ru"}}
	userRepo.On("List", ctx, 20, 20, "").Return(users, int64(42), nil)

	service := NewUserService(userRepo, roleRepo, bcrypt.MinCost)

	page, err := service.List(ctx, &entity.FilterQuery{Page: 2, Limit: 20})

	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	assert.Equal(t, int64(42), page.Meta.Total)
	assert.Equal(t, int64(3), page.Meta.TotalPages)
}
