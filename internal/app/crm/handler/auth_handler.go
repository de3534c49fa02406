package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/service"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
	validator   *validator.Validate
	production  bool
}

// NewAuthHandler создает новый обработчик аутентификации.
// production управляет флагом Secure у cookie с токенами
func NewAuthHandler(authService service.AuthServiceInterface, production bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
		production:  production,
	}
}

// Login выполняет вход и выставляет httpOnly cookie с токенами.
// Токены дублируются в теле ответа для не-браузерных клиентов
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": formatValidationError(err),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to login",
		})
		return
	}

	h.setTokenCookies(c, &resp.Token)
	c.JSON(http.StatusOK, resp)
}

// Refresh выпускает новую пару токенов по refresh cookie
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Refresh token required",
		})
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Invalid or expired refresh token",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to refresh tokens",
		})
		return
	}

	h.setTokenCookies(c, tokens)
	c.JSON(http.StatusOK, tokens)
}

// Logout стирает cookie с токенами.
// Выпущенные токены остаются валидными до истечения срока
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me возвращает текущего пользователя с ролями и разрешениями
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "Unauthorized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"permissions": user.PermissionNames(),
	})
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, tokens *entity.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		AccessTokenCookie,
		tokens.AccessToken,
		h.authService.AccessTokenDuration(),
		"/",
		"",
		h.production,
		true,
	)
	c.SetCookie(
		RefreshTokenCookie,
		tokens.RefreshToken,
		h.authService.RefreshTokenDuration(),
		"/",
		"",
		h.production,
		true,
	)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.production, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", h.production, true)
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
