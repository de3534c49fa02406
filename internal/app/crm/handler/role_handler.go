package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/service"
)

type RoleHandler struct {
	roleService service.RoleServiceInterface
	validator   *validator.Validate
}

func NewRoleHandler(roleService service.RoleServiceInterface) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		validator:   validator.New(),
	}
}

// Create создает роль с набором разрешений
func (h *RoleHandler) Create(c *gin.Context) {
	var req entity.CreateRoleRequest

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

	role, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Role with this name already exists",
			})
		case errors.Is(err, service.ErrPermissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "One or more permissions do not exist",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to create role",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, role)
}

// GetByID возвращает роль с её разрешениями
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid role ID",
		})
		return
	}

	role, err := h.roleService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Role not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get role",
		})
		return
	}

	c.JSON(http.StatusOK, role)
}

// List возвращает все роли
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list roles",
		})
		return
	}

	c.JSON(http.StatusOK, roles)
}

// Update обновляет роль; присланный набор разрешений заменяет старый целиком
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid role ID",
		})
		return
	}

	var req entity.UpdateRoleRequest
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

	role, err := h.roleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Role not found",
			})
		case errors.Is(err, service.ErrRoleExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Role with this name already exists",
			})
		case errors.Is(err, service.ErrPermissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "One or more permissions do not exist",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to update role",
			})
		}
		return
	}

	c.JSON(http.StatusOK, role)
}

// Delete удаляет роль и возвращает удаленную сущность.
// Роль, назначенная пользователям, не удаляется:
// в ответе 400 указано количество затронутых пользователей
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid role ID",
		})
		return
	}

	role, err := h.roleService.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Role not found",
			})
			return
		}

		var assigned *service.RoleAssignedError
		if errors.As(err, &assigned) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": "Role is assigned to users and cannot be deleted",
				"count":   assigned.Count,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete role",
		})
		return
	}

	c.JSON(http.StatusOK, role)
}
