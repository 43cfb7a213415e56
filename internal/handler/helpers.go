package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// paramID parses the :id path parameter. On failure it writes the error response.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failStore maps repository and service errors to a status and error code.
func failStore(c *gin.Context, err error) {
	status, code := storeError(err)
	response.Fail(c, status, code)
}

func storeError(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, repository.ErrDuplicateRollNo),
		errors.Is(err, repository.ErrDuplicateFaculty),
		errors.Is(err, repository.ErrDuplicateClass),
		errors.Is(err, repository.ErrDuplicateYear),
		errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusConflict, response.ErrConflict
	case errors.Is(err, repository.ErrMissingReference):
		return http.StatusConflict, response.ErrDependencyExists
	case errors.Is(err, repository.ErrUnknownTable):
		return http.StatusBadRequest, response.ErrUnknownTable
	case errors.Is(err, service.ErrClassNotFound):
		return http.StatusNotFound, response.ErrClassNotFound
	case errors.Is(err, service.ErrStudentNotFound):
		return http.StatusNotFound, response.ErrStudentNotFound
	case errors.Is(err, service.ErrStudentNotInClass):
		return http.StatusUnprocessableEntity, response.ErrNotEnrolled
	}
	return http.StatusInternalServerError, response.ErrInternal
}
