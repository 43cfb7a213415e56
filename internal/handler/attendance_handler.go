package handler

import (
	"net/http"

	"github.com/campusroll/attendance-backend/internal/middleware"
	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AttendanceHandler handles marking and listing attendance.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ListAttendance godoc
// GET /api/v1/attendance?class_id=&student_id=&date=
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	var f model.AttendanceFilter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records, err := h.attendanceService.List(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": records})
}

// MarkAttendance godoc
// POST /api/v1/attendance/mark
// Upserts one student's status for a class session.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.Mark(c.Request.Context(), req, markedBy(c))
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": record})
}

// MarkBulkAttendance godoc
// POST /api/v1/attendance/mark-bulk
// Records a whole class session in one transaction.
func (h *AttendanceHandler) MarkBulkAttendance(c *gin.Context) {
	var req model.BulkMarkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	records, err := h.attendanceService.MarkBulk(c.Request.Context(), req, markedBy(c))
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": records, "count": len(records)})
}

// DeleteAttendance godoc
// DELETE /api/v1/admin/attendance/:id
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.attendanceService.Delete(c.Request.Context(), id); err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "attendance deleted successfully"})
}

// markedBy names the caller in live events, e.g. "faculty:FAC0003".
func markedBy(c *gin.Context) string {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return ""
	}
	return string(claims.Role) + ":" + claims.Code
}
