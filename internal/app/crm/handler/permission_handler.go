package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/service"
)

// PermissionHandler отдает read-only каталог разрешений.
// Создание и изменение разрешений через API не предусмотрено,
// каталог наполняется сидом при старте
type PermissionHandler struct {
	permissionService service.PermissionServiceInterface
}

func NewPermissionHandler(permissionService service.PermissionServiceInterface) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// List возвращает страницу каталога разрешений
func (h *PermissionHandler) List(c *gin.Context) {
	var filter entity.FilterQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid pagination parameters",
		})
		return
	}

	page, err := h.permissionService.List(c.Request.Context(), filter.Page, filter.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list permissions",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}
