package handler

import (
	"net/http"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ClassHandler handles class management (CRUD) and the class dropdown lists.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// ListClasses godoc
// GET /api/v1/classes
// Lists classes without pagination, optionally filtered by year, semester and department.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	var f model.ClassFilter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	classes, err := h.classService.List(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// GetClass godoc
// GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	class, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// CreateClass godoc
// POST /api/v1/admin/classes
// Creates a new class. A (code, year) pair is unique.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := req.ToClass()
	if err := h.classService.Create(c.Request.Context(), &class); err != nil {
		failStore(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// UpdateClass godoc
// PUT /api/v1/admin/classes/:id
// Updates an existing class.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := req.ToClass()
	class.ID = id
	if err := h.classService.Update(c.Request.Context(), &class); err != nil {
		failStore(c, err)
		return
	}

	// Fetch updated to get current updated_at timestamp
	updated, err := h.classService.GetByID(c.Request.Context(), id)
	if err != nil {
		updated = &class
	}

	response.Success(c, http.StatusOK, gin.H{"class": updated})
}

// DeleteClass godoc
// DELETE /api/v1/admin/classes/:id
// Deletes a class by ID together with its attendance.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "class deleted successfully"})
}
