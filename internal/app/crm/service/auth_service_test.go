package service

import (
	"context"
	"testing"
	"time"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/repository/mocks"
	"clinicrm/internal/app/crm/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWTManager(t *testing.T) *util.JWTManager {
	t.Helper()
	manager, err := util.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return manager
}

func testUser(t *testing.T, password string, active bool) *entity.User {
	t.Helper()
	hash, err := util.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	id := uuid.New()
	return &entity.User{
		ID:           id,
		Email:        "manager@clinic.ru",
		PasswordHash: hash,
		IsActive:     active,
		Profile: &entity.Profile{
			UserID:    id,
			FirstName: "Anna",
			LastName:  "Petrova",
		},
	}
}

// ==================== Login Tests ====================

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)

	user := testUser(t, "correct-password", true)
	userRepo.On("GetByEmail", ctx, "manager@clinic.ru").Return(user, nil)

	service := NewAuthService(userRepo, newTestJWTManager(t))

	// Act
	resp, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "manager@clinic.ru",
		Password: "correct-password",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "Anna", resp.User.FirstName)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.NotEqual(t, resp.Token.AccessToken, resp.Token.RefreshToken)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByEmail", ctx, "ghost@clinic.ru").Return(nil, repository.ErrNotFound)

	service := NewAuthService(userRepo, newTestJWTManager(t))

	resp, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "ghost@clinic.ru",
		Password: "whatever",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByEmail", ctx, "manager@clinic.ru").Return(testUser(t, "correct-password", true), nil)

	service := NewAuthService(userRepo, newTestJWTManager(t))

	resp, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "manager@clinic.ru",
		Password: "wrong-password",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// Деактивированный аккаунт получает тот же ответ, что и неверный пароль:
// ответ не должен раскрывать состояние учетки
func TestAuthService_Login_InactiveUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByEmail", ctx, "manager@clinic.ru").Return(testUser(t, "correct-password", false), nil)

	service := NewAuthService(userRepo, newTestJWTManager(t))

	resp, err := service.Login(ctx, &entity.LoginRequest{
		Email:    "manager@clinic.ru",
		Password: "correct-password",
	})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ==================== Refresh Tests ====================

func TestAuthService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	user := testUser(t, "correct-password", true)
	refreshToken, err := manager.GenerateRefreshToken(user.ID, user.Email)
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	service := NewAuthService(userRepo, manager)

	tokens, err := service.Refresh(ctx, refreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

// Access токен не должен приниматься как refresh
func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	accessToken, err := manager.GenerateAccessToken(uuid.New(), "manager@clinic.ru")
	require.NoError(t, err)

	service := NewAuthService(userRepo, manager)

	tokens, err := service.Refresh(ctx, accessToken)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	userID := uuid.New()
	refreshToken, err := manager.GenerateRefreshToken(userID, "manager@clinic.ru")
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, userID).Return(nil, repository.ErrNotFound)

	service := NewAuthService(userRepo, manager)

	tokens, err := service.Refresh(ctx, refreshToken)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	user := testUser(t, "correct-password", false)
	refreshToken, err := manager.GenerateRefreshToken(user.ID, user.Email)
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	service := NewAuthService(userRepo, manager)

	tokens, err := service.Refresh(ctx, refreshToken)

	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

// ==================== Authenticate Tests ====================

func TestAuthService_Authenticate_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	user := testUser(t, "correct-password", true)
	user.Roles = []entity.Role{
		{ID: 1, Name: "manager", Permissions: []entity.Permission{{ID: 1, Name: "lead:read"}}},
	}

	accessToken, err := manager.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	userRepo.On("GetWithAuthorization", ctx, user.ID).Return(user, nil)

	service := NewAuthService(userRepo, manager)

	result, err := service.Authenticate(ctx, accessToken)

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.ID)
	assert.Equal(t, []string{"lead:read"}, result.PermissionNames())
}

// Пользователь, удаленный после выпуска токена, не проходит:
// граф авторизации перечитывается из БД на каждый запрос
func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	userID := uuid.New()
	accessToken, err := manager.GenerateAccessToken(userID, "manager@clinic.ru")
	require.NoError(t, err)

	userRepo.On("GetWithAuthorization", ctx, userID).Return(nil, repository.ErrNotFound)

	service := NewAuthService(userRepo, manager)

	result, err := service.Authenticate(ctx, accessToken)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_Authenticate_RefreshTokenRejected(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	refreshToken, err := manager.GenerateRefreshToken(uuid.New(), "manager@clinic.ru")
	require.NoError(t, err)

	service := NewAuthService(userRepo, manager)

	result, err := service.Authenticate(ctx, refreshToken)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_Authenticate_InactiveUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(mocks.MockUserRepository)
	manager := newTestJWTManager(t)

	user := testUser(t, "correct-password", false)
	accessToken, err := manager.GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	userRepo.On("GetWithAuthorization", ctx, user.ID).Return(user, nil)

	service := NewAuthService(userRepo, manager)

	result, err := service.Authenticate(ctx, accessToken)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}
