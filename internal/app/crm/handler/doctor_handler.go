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

type DoctorHandler struct {
	doctorService service.DoctorServiceInterface
	validator     *validator.Validate
}

func NewDoctorHandler(doctorService service.DoctorServiceInterface) *DoctorHandler {
	return &DoctorHandler{
		doctorService: doctorService,
		validator:     validator.New(),
	}
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req entity.CreateDoctorRequest

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

	doctor, err := h.doctorService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrBranchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch does not exist",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to create doctor",
		})
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

func (h *DoctorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid doctor ID",
		})
		return
	}

	doctor, err := h.doctorService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Doctor not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get doctor",
		})
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.doctorService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list doctors",
		})
		return
	}

	c.JSON(http.StatusOK, doctors)
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid doctor ID",
		})
		return
	}

	var req entity.UpdateDoctorRequest
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

	doctor, err := h.doctorService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDoctorNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Doctor not found",
			})
		case errors.Is(err, service.ErrBranchNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Branch does not exist",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "Failed to update doctor",
			})
		}
		return
	}

	c.JSON(http.StatusOK, doctor)
}

func (h *DoctorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid doctor ID",
		})
		return
	}

	if err := h.doctorService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Doctor not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to delete doctor",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor deleted"})
}
