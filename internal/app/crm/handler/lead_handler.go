package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/service"
)

type LeadHandler struct {
	leadService service.LeadServiceInterface
	validator   *validator.Validate
}

func NewLeadHandler(leadService service.LeadServiceInterface) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		validator:   validator.New(),
	}
}

// Create создает нового лида
func (h *LeadHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Unauthorized"})
		return
	}

	var req entity.CreateLeadRequest
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

	lead, err := h.leadService.Create(c.Request.Context(), user.ID, &req)
	if err != nil {
		if errors.Is(err, service.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch or doctor does not exist",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create lead",
		})
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// GetByID возвращает лида по ID
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid lead ID",
		})
		return
	}

	lead, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Lead not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get lead",
		})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// List возвращает страницу лидов с поиском
func (h *LeadHandler) List(c *gin.Context) {
	var filter entity.FilterQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid pagination parameters",
		})
		return
	}

	page, err := h.leadService.List(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list leads",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Update обновляет лида
func (h *LeadHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid lead ID",
		})
		return
	}

	var req entity.UpdateLeadRequest
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

	lead, err := h.leadService.Update(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Lead not found",
			})
		case errors.Is(err, service.ErrBranchNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch or doctor does not exist",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to update lead",
			})
		}
		return
	}

	c.JSON(http.StatusOK, lead)
}

// Delete удаляет лида
func (h *LeadHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid lead ID",
		})
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Lead not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete lead",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

// ListActivity возвращает журнал активностей лида, новые записи первыми
func (h *LeadHandler) ListActivity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid lead ID",
		})
		return
	}

	activities, err := h.leadService.ListActivity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Lead not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list lead activities",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": activities,
		"total":   len(activities),
	})
}
