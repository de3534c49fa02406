package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/service"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"
	"clinicrm/pkg/metrics"
)

// Имя cookie с access токеном
const AccessTokenCookie = "access_token"

// Имя cookie с refresh токеном
const RefreshTokenCookie = "refresh_token"

const principalKey = "principal"

type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate проверяет access токен из cookie и кладет пользователя
// с полным графом ролей и разрешений в контекст запроса.
// Граф загружается из БД на каждый запрос: отзыв роли действует
// немедленно, без повторного входа
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		user, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) || errors.Is(err, util.ErrInvalidToken) {
				// Причина отказа остается в логах; ответ клиенту единый,
				// чтобы не раскрывать состояние токена
				logger.Warn().
					Err(err).
					Str("path", c.FullPath()).
					Msg("access token rejected")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "Unauthorized",
					"message": "Invalid token",
				})
				c.Abort()
				return
			}
			logger.Error().Err(err).Msg("failed to authenticate request")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to authenticate",
			})
			c.Abort()
			return
		}

		c.Set(principalKey, user)
		c.Set("user_id", user.ID)
		c.Set("email", user.Email)

		c.Next()
	}
}

// RequirePermissions пропускает запрос, только если пользователь
// владеет всеми перечисленными разрешениями
func (m *AuthMiddleware) RequirePermissions(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Unauthorized",
			})
			c.Abort()
			return
		}

		if !canActivate(user.PermissionNames(), required) {
			metrics.AuthzDecisions.WithLabelValues("deny").Inc()
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		metrics.AuthzDecisions.WithLabelValues("allow").Inc()
		c.Next()
	}
}

// canActivate проверяет, что granted покрывает каждый элемент required.
// Пустой required означает, что достаточно аутентификации
func canActivate(granted, required []string) bool {
	if len(required) == 0 {
		return true
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		grantedSet[p] = struct{}{}
	}

	for _, p := range required {
		if _, ok := grantedSet[p]; !ok {
			return false
		}
	}

	return true
}

// CurrentUser возвращает аутентифицированного пользователя из контекста
// или nil, если Authenticate не отработал
func CurrentUser(c *gin.Context) *entity.User {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}

	user, ok := value.(*entity.User)
	if !ok {
		return nil
	}

	return user
}
