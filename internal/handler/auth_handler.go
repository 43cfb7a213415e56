package handler

import (
	"errors"
	"net/http"

	"github.com/campusroll/attendance-backend/internal/model"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles the login endpoints of every role.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Validates email + password, returns JWT.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failLogin(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// FacultyLogin godoc
// POST /api/v1/auth/faculty/login
// Validates faculty code + password, returns JWT.
func (h *AuthHandler) FacultyLogin(c *gin.Context) {
	var req model.FacultyLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.LoginFaculty(c.Request.Context(), req.FacultyID, req.Password)
	if err != nil {
		failLogin(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Validates roll number + registered email, returns JWT.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.LoginStudent(c.Request.Context(), req.RollNo, req.Email)
	if err != nil {
		failLogin(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func failLogin(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
