package handler

import (
	"net/http"
	"strings"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// FacultyHandler handles admin-facing faculty management (CRUD).
type FacultyHandler struct {
	facultyService *service.FacultyService
}

// NewFacultyHandler creates a new FacultyHandler.
func NewFacultyHandler(facultyService *service.FacultyService) *FacultyHandler {
	return &FacultyHandler{facultyService: facultyService}
}

// ListFaculty godoc
// GET /api/v1/admin/faculty
func (h *FacultyHandler) ListFaculty(c *gin.Context) {
	faculty, err := h.facultyService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": faculty})
}

// GetFaculty godoc
// GET /api/v1/admin/faculty/:id
func (h *FacultyHandler) GetFaculty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	f, err := h.facultyService.GetByID(c.Request.Context(), id)
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": f})
}

// CreateFaculty godoc
// POST /api/v1/admin/faculty
// Creates a faculty member. Without a password the configured default is used.
func (h *FacultyHandler) CreateFaculty(c *gin.Context) {
	var req model.FacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f := facultyFromRequest(req)
	if err := h.facultyService.Create(c.Request.Context(), f, req.Password); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"faculty": f})
}

// UpdateFaculty godoc
// PUT /api/v1/admin/faculty/:id
// An empty password keeps the current one.
func (h *FacultyHandler) UpdateFaculty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.FacultyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	f := facultyFromRequest(req)
	f.ID = id
	if err := h.facultyService.Update(c.Request.Context(), f, req.Password); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"faculty": f})
}

// DeleteFaculty godoc
// DELETE /api/v1/admin/faculty/:id
func (h *FacultyHandler) DeleteFaculty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.facultyService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "faculty deleted successfully"})
}

func facultyFromRequest(req model.FacultyRequest) *model.Faculty {
	return &model.Faculty{
		FacultyID:      strings.TrimSpace(req.FacultyID),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       req.LastName,
		Email:          req.Email,
		Department:     req.Department,
		Specialization: req.Specialization,
	}
}
