package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusroll/attendance-backend/internal/export"
	"github.com/campusroll/attendance-backend/internal/report"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the attendance history report and its downloads.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportQuery is the raw report criteria. Empty values and "all" mean no filter.
type ReportQuery struct {
	Year       string `form:"year"`
	Department string `form:"department" binding:"max=100"`
	Semester   string `form:"semester"`
	ClassID    string `form:"class_id"`
	DateFrom   string `form:"date_from" binding:"omitempty,iso_date"`
	DateTo     string `form:"date_to" binding:"omitempty,iso_date"`
	Status     string `form:"status"`
	Sort       string `form:"sort"`
	Format     string `form:"format"`
}

// GetAttendanceReport godoc
// GET /api/v1/admin/reports/attendance
// Returns student rows, the overview, the year-wise rollup and the export shape.
func (h *ReportHandler) GetAttendanceReport(c *gin.Context) {
	q, f, ok := bindReportQuery(c)
	if !ok {
		return
	}

	rep := h.reportService.Generate(c.Request.Context(), f, report.SortOrder(q.Sort))
	c.Header("X-Report-Status", string(rep.Status))
	response.Success(c, http.StatusOK, rep)
}

// ExportAttendanceReport godoc
// GET /api/v1/admin/reports/attendance/export?format=csv|xlsx|json
// Streams the report as a download. Defaults to csv.
func (h *ReportHandler) ExportAttendanceReport(c *gin.Context) {
	q, f, ok := bindReportQuery(c)
	if !ok {
		return
	}
	format := strings.ToLower(q.Format)
	if format == "" {
		format = "csv"
	}

	file, rep, err := h.reportService.Export(c.Request.Context(), f, report.SortOrder(q.Sort), format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFmt)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	c.Header("X-Report-Status", string(rep.Status))
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

func bindReportQuery(c *gin.Context) (ReportQuery, report.Filter, bool) {
	var q ReportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return q, report.Filter{}, false
	}
	f, fields := q.Filter()
	if fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidFilter, fields)
		return q, report.Filter{}, false
	}
	return q, f, true
}

// Filter converts the query into report criteria. Invalid values are returned per field.
func (q ReportQuery) Filter() (report.Filter, map[string]string) {
	var f report.Filter
	fields := map[string]string{}

	positive := func(name, raw string) *int {
		if isAll(raw) {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 {
			fields[name] = name + " must be a positive number or all"
			return nil
		}
		return &n
	}
	f.Year = positive("year", q.Year)
	f.Semester = positive("semester", q.Semester)
	f.ClassID = positive("class_id", q.ClassID)

	if !isAll(q.Department) {
		f.Department = strings.TrimSpace(q.Department)
	}

	if q.DateFrom != "" {
		if d, err := time.Parse(validator.DateLayout, q.DateFrom); err == nil {
			f.DateFrom = &d
		}
	}
	if q.DateTo != "" {
		if d, err := time.Parse(validator.DateLayout, q.DateTo); err == nil {
			f.DateTo = &d
		}
	}
	if f.HasDateRange() && f.DateTo.Before(*f.DateFrom) {
		fields["date_to"] = "date_to must not be before date_from"
	}

	switch st := strings.ToLower(strings.TrimSpace(q.Status)); st {
	case "", "all":
		f.Status = report.StatusAll
	case string(report.StatusPresent), string(report.StatusAbsent):
		f.Status = report.StatusFilter(st)
	default:
		fields["status"] = "status must be one of all, present, absent"
	}

	if len(fields) > 0 {
		return report.Filter{}, fields
	}
	return f, nil
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}
