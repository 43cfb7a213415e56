package handler

import (
	"net/http"

	"github.com/campusroll/attendance-backend/internal/middleware"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin account endpoints.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetProfile godoc
// GET /api/v1/admin/me
// Returns the profile of the currently authenticated admin.
func (h *AdminHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		failStore(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
