package handler

import (
	"net/http"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

type AcademicYearHandler struct {
	yearService *service.AcademicYearService
}

func NewAcademicYearHandler(yearService *service.AcademicYearService) *AcademicYearHandler {
	return &AcademicYearHandler{yearService: yearService}
}

// ListAcademicYears godoc
// GET /api/v1/academic-years
func (h *AcademicYearHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.yearService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"academicYears": years})
}

// CreateAcademicYear godoc
// POST /api/v1/admin/academic-years
func (h *AcademicYearHandler) CreateAcademicYear(c *gin.Context) {
	var req model.AcademicYearRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	year, err := h.yearService.Create(c.Request.Context(), req)
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"academicYear": year})
}

// UpdateAcademicYear godoc
// PUT /api/v1/admin/academic-years/:id
func (h *AcademicYearHandler) UpdateAcademicYear(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.AcademicYearRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	year, err := h.yearService.Update(c.Request.Context(), id, req)
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"academicYear": year})
}

// DeleteAcademicYear godoc
// DELETE /api/v1/admin/academic-years/:id
func (h *AcademicYearHandler) DeleteAcademicYear(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.yearService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "academic year deleted successfully"})
}
