package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/service"
)

type CommentHandler struct {
	commentService service.CommentServiceInterface
	validator      *validator.Validate
}

func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validator:      validator.New(),
	}
}

// Create создает комментарий к активности лида
func (h *CommentHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Unauthorized"})
		return
	}

	activityID := c.Param("activity_id")
	if activityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Activity ID is required",
		})
		return
	}

	var req entity.CreateCommentRequest
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

	comment, err := h.commentService.Create(c.Request.Context(), user.ID, activityID, &req)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Lead activity not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create comment",
		})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListByActivity возвращает комментарии к активности, новые первыми
func (h *CommentHandler) ListByActivity(c *gin.Context) {
	activityID := c.Param("activity_id")
	if activityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Activity ID is required",
		})
		return
	}

	comments, err := h.commentService.ListByActivity(c.Request.Context(), activityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list comments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": comments,
		"total":   len(comments),
	})
}

// Delete удаляет комментарий указанной активности
func (h *CommentHandler) Delete(c *gin.Context) {
	activityID := c.Param("activity_id")
	id := c.Param("comment_id")
	if activityID == "" || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Activity ID and comment ID are required",
		})
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), activityID, id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Comment not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete comment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
