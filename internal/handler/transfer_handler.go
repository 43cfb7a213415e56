package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/campusroll/attendance-backend/internal/export"
	"github.com/campusroll/attendance-backend/internal/repository"
	"github.com/campusroll/attendance-backend/internal/response"
	"github.com/campusroll/attendance-backend/internal/service"
	"github.com/campusroll/attendance-backend/internal/transfer"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartOverhead leaves room for form boundaries around the file part.
const multipartOverhead = 1 << 20

// TransferHandler handles bulk import, export, backup and restore.
type TransferHandler struct {
	transferService *service.TransferService
	backupService   *service.BackupService
	maxUpload       int64
	log             zerolog.Logger
}

// NewTransferHandler creates a new TransferHandler. maxUpload bounds uploaded files in bytes.
func NewTransferHandler(transferService *service.TransferService, backupService *service.BackupService, maxUpload int64, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		backupService:   backupService,
		maxUpload:       maxUpload,
		log:             log.With().Str("component", "transfer_handler").Logger(),
	}
}

type importFunc func(h *TransferHandler, c *gin.Context, filename string, data []byte) (*transfer.Result, error)

// ImportStudents godoc
// POST /api/v1/admin/import/students (multipart "file", .csv or .xlsx)
// Imports the year-sectioned students layout.
func (h *TransferHandler) ImportStudents(c *gin.Context) {
	h.runImport(c, "students", func(h *TransferHandler, c *gin.Context, name string, data []byte) (*transfer.Result, error) {
		return h.transferService.ImportStudents(c.Request.Context(), name, data)
	})
}

// ImportFaculty godoc
// POST /api/v1/admin/import/faculty
func (h *TransferHandler) ImportFaculty(c *gin.Context) {
	h.runImport(c, "faculty", func(h *TransferHandler, c *gin.Context, name string, data []byte) (*transfer.Result, error) {
		return h.transferService.ImportFaculty(c.Request.Context(), name, data)
	})
}

// ImportClasses godoc
// POST /api/v1/admin/import/classes
// Unknown faculty names create faculty members.
func (h *TransferHandler) ImportClasses(c *gin.Context) {
	h.runImport(c, "classes", func(h *TransferHandler, c *gin.Context, name string, data []byte) (*transfer.Result, error) {
		return h.transferService.ImportClasses(c.Request.Context(), name, data)
	})
}

func (h *TransferHandler) runImport(c *gin.Context, kind string, run importFunc) {
	name, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	res, err := run(h, c, name, data)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrUnsupportedFile):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		default:
			h.log.Error().Err(err).Str("kind", kind).Str("file", name).Msg("import failed")
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrImportFailed)
		}
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Export godoc
// GET /api/v1/admin/export?tables=students,faculty,classes
// Downloads one CSV, or a ZIP when more than one table has data.
func (h *TransferHandler) Export(c *gin.Context) {
	var tables []string
	for _, t := range strings.Split(c.Query("tables"), ",") {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			tables = append(tables, t)
		}
	}

	file, err := h.transferService.Export(c.Request.Context(), tables)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			response.Fail(c, http.StatusNotFound, response.ErrNothingToExport)
			return
		}
		h.log.Error().Err(err).Strs("tables", tables).Msg("export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

// DownloadBackup godoc
// GET /api/v1/admin/backup
// Downloads the complete backup archive.
func (h *TransferHandler) DownloadBackup(c *gin.Context) {
	file, err := h.transferService.Backup(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("backup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

// UploadBackup godoc
// POST /api/v1/admin/backup/s3
// Builds a backup and stores it in the configured bucket.
func (h *TransferHandler) UploadBackup(c *gin.Context) {
	info, err := h.backupService.Upload(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrBackupUploadDisabled) {
			response.Fail(c, http.StatusServiceUnavailable, response.ErrBackupNotEnabled)
			return
		}
		h.log.Error().Err(err).Msg("backup upload failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"backup": info})
}

// Restore godoc
// POST /api/v1/admin/restore (multipart "file": backup .zip or .json)
// Replaces every table with the contents of the backup.
func (h *TransferHandler) Restore(c *gin.Context) {
	name, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	summary, err := h.transferService.Restore(c.Request.Context(), name, data)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrBackupTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		case errors.Is(err, transfer.ErrEmptyBackup), errors.Is(err, transfer.ErrMalformedBackup):
			response.Fail(c, http.StatusBadRequest, response.ErrRestoreFailed)
		default:
			h.log.Error().Err(err).Str("file", name).Msg("restore failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrRestoreFailed)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"restored": summary.Restored, "skipped": summary.Skipped})
}

// ClearTable godoc
// DELETE /api/v1/admin/tables/:table
func (h *TransferHandler) ClearTable(c *gin.Context) {
	n, err := h.transferService.ClearTable(c.Request.Context(), c.Param("table"))
	if err != nil {
		if errors.Is(err, repository.ErrUnknownTable) {
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownTable)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"table": c.Param("table"), "deleted": n})
}

// readUpload returns the name and contents of the multipart "file" field,
// enforcing the upload limit. On failure it writes the error response.
func (h *TransferHandler) readUpload(c *gin.Context) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return "", nil, false
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return "", nil, false
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return "", nil, false
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return "", nil, false
	}
	if int64(len(data)) > h.maxUpload {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return "", nil, false
	}
	return header.Filename, data, true
}
