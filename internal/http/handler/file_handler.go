package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/service"
	"go.uber.org/zap"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const maxMultipartMemory = 10 << 20

// FileHandler handles HTTP requests for file attachments
type FileHandler struct {
	files  *service.FileService
	logger *zap.Logger
}

// NewFileHandler creates a new file handler instance
func NewFileHandler(files *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// Upload godoc
// @Summary Upload a file attachment
// @Description Attaches an uploaded file to a record. Multipart fields: file, module, recordId, field.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param module formData string true "Owning module" Enums(accommodations, payments, suppliers, clients, assets, work_orders)
// @Param recordId formData int true "Owning record ID"
// @Param field formData string false "Logical field name on the record"
// @Success 201 {object} domain.Response{data=domain.FileAttachment}
// @Failure 400 {object} domain.Response
// @Failure 413 {object} domain.Response "File too large"
// @Failure 415 {object} domain.Response "File type not allowed"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	module := domain.Module(r.FormValue("module"))
	if !module.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid module")
		return
	}

	recordID := uintForm(r, "recordId")
	if recordID == 0 {
		respondError(w, http.StatusBadRequest, "recordId is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	attachment, err := h.files.Store(r.Context(), module, r.FormValue("field"), recordID,
		header.Filename, contentType, header.Size, file, nil)
	if err != nil {
		h.logger.Error("failed to store file",
			zap.String("filename", header.Filename),
			zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, okResponse("File uploaded", attachment))
}

// Download godoc
// @Summary Download a file attachment
// @Tags Files
// @Produce octet-stream
// @Param id path int true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	attachment, reader, err := h.files.Open(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	if attachment.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", attachment.Size))
	}
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file download interrupted",
			zap.Uint("fileId", id),
			zap.Error(err))
	}
}

// ListForRecord godoc
// @Summary List file attachments for a record
// @Tags Files
// @Produce json
// @Param module query string true "Owning module"
// @Param recordId query int true "Owning record ID"
// @Success 200 {object} domain.Response{data=[]domain.FileAttachment}
// @Failure 400 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files [get]
func (h *FileHandler) ListForRecord(w http.ResponseWriter, r *http.Request) {
	module := domain.Module(r.URL.Query().Get("module"))
	if !module.IsValid() {
		respondError(w, http.StatusBadRequest, "Invalid module")
		return
	}
	recordID := uintQuery(r, "recordId")
	if recordID == nil {
		respondError(w, http.StatusBadRequest, "recordId is required")
		return
	}

	attachments, err := h.files.ListForRecord(r.Context(), module, *recordID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("Files retrieved", attachments))
}

// Delete godoc
// @Summary Delete a file attachment
// @Tags Files
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} domain.Response
// @Failure 404 {object} domain.Response
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	if err := h.files.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse("File deleted", nil))
}
