package service

import (
	"context"
	"errors"
	"fmt"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/metrics"

	"github.com/google/uuid"
)

// AuthService обрабатывает бизнес-логику аутентификации
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *util.JWTManager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Login выполняет вход пользователя.
// Неизвестный email, неверный пароль и деактивированный аккаунт
// дают одинаковый ответ, чтобы не раскрывать существование учетки
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()

	loginUser := entity.LoginUser{
		ID:      user.ID,
		Email:   user.Email,
		Profile: user.Profile,
	}
	if user.Profile != nil {
		loginUser.FirstName = user.Profile.FirstName
		loginUser.LastName = user.Profile.LastName
	}

	return &entity.LoginResponse{
		User:  loginUser,
		Token: *tokens,
	}, nil
}

// Refresh выпускает новую пару токенов по refresh токену.
// Пользователь перечитывается из БД: удаленный или деактивированный
// аккаунт обновить сессию не может
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken, util.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	return s.generateTokenPair(user.ID, user.Email)
}

// Authenticate проверяет access токен и загружает пользователя
// вместе с полным графом ролей и разрешений. Граф читается из БД
// на каждый запрос: изменение ролей действует без повторного входа
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.jwtManager.ValidateToken(accessToken, util.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, util.ErrInvalidToken
	}

	user, err := s.userRepo.GetWithAuthorization(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Пользователь удален после выпуска токена
			return nil, util.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user authorization: %w", err)
	}

	if !user.IsActive {
		return nil, util.ErrInvalidToken
	}

	return user, nil
}

// AccessTokenDuration возвращает TTL access токена для cookie
func (s *AuthService) AccessTokenDuration() int {
	return int(s.jwtManager.AccessTokenDuration().Seconds())
}

// RefreshTokenDuration возвращает TTL refresh токена для cookie
func (s *AuthService) RefreshTokenDuration() int {
	return int(s.jwtManager.RefreshTokenDuration().Seconds())
}

func (s *AuthService) generateTokenPair(userID uuid.UUID, email string) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	metrics.AuthTokensIssued.WithLabelValues(util.TokenTypeAccess).Inc()

	refreshToken, err := s.jwtManager.GenerateRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	metrics.AuthTokensIssued.WithLabelValues(util.TokenTypeRefresh).Inc()

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
