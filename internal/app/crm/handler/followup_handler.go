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

type FollowUpHandler struct {
	followUpService service.FollowUpServiceInterface
	validator       *validator.Validate
}

func NewFollowUpHandler(followUpService service.FollowUpServiceInterface) *FollowUpHandler {
	return &FollowUpHandler{
		followUpService: followUpService,
		validator:       validator.New(),
	}
}

// Create создает follow-up по существующему лиду
func (h *FollowUpHandler) Create(c *gin.Context) {
	var req entity.CreateFollowUpRequest

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

	followUp, err := h.followUpService.Create(c.Request.Context(), &req)
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
			"message": "Failed to create follow-up",
		})
		return
	}

	c.JSON(http.StatusCreated, followUp)
}

// GetByID возвращает follow-up по ID
func (h *FollowUpHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid follow-up ID",
		})
		return
	}

	followUp, err := h.followUpService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFollowUpNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Follow-up not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get follow-up",
		})
		return
	}

	c.JSON(http.StatusOK, followUp)
}

// ListByLead возвращает все follow-up лида
func (h *FollowUpHandler) ListByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid lead ID",
		})
		return
	}

	followUps, err := h.followUpService.ListByLead(c.Request.Context(), leadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list follow-ups",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": followUps,
		"total":   len(followUps),
	})
}

// Update обновляет follow-up; done=true закрывает напоминание
func (h *FollowUpHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid follow-up ID",
		})
		return
	}

	var req entity.UpdateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid request body",
		})
		return
	}

	followUp, err := h.followUpService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrFollowUpNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Follow-up not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to update follow-up",
		})
		return
	}

	c.JSON(http.StatusOK, followUp)
}

// Delete удаляет follow-up
func (h *FollowUpHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid follow-up ID",
		})
		return
	}

	if err := h.followUpService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrFollowUpNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Follow-up not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete follow-up",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Follow-up deleted"})
}
