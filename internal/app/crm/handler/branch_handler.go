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

type BranchHandler struct {
	branchService service.BranchServiceInterface
	validator     *validator.Validate
}

func NewBranchHandler(branchService service.BranchServiceInterface) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
		validator:     validator.New(),
	}
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req entity.CreateBranchRequest

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

	branch, err := h.branchService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrBranchExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Branch with this name already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create branch",
		})
		return
	}

	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid branch ID",
		})
		return
	}

	branch, err := h.branchService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get branch",
		})
		return
	}

	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.branchService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list branches",
		})
		return
	}

	c.JSON(http.StatusOK, branches)
}

func (h *BranchHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid branch ID",
		})
		return
	}

	var req entity.UpdateBranchRequest
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

	branch, err := h.branchService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBranchNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch not found",
			})
		case errors.Is(err, service.ErrBranchExists):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Conflict",
				"message": "Branch with this name already exists",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to update branch",
			})
		}
		return
	}

	c.JSON(http.StatusOK, branch)
}

func (h *BranchHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid branch ID",
		})
		return
	}

	if err := h.branchService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete branch",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted"})
}
