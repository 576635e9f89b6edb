package api

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	app_errors "allma-client/internal/errors"
	"allma-client/internal/interfaces"
	"allma-client/internal/service"
)

const multipartMemory = 32 << 20

// DocumentHandler accepts document uploads for the knowledge base.
type DocumentHandler struct {
	service interfaces.DocumentService
}

func NewDocumentHandler(svc interfaces.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// HandleIngest godoc
// @Summary      Ingest documents
// @Description  Uploads one or more files to the backend knowledge base. Each file succeeds or fails on its own.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Documents to ingest"
// @Success      200    {object}  IngestResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /v1/documents [post]
func (h *DocumentHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid multipart form: %s", app_errors.ErrValidation, err.Error()))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["files"]...)
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		respondWithError(w, fmt.Errorf("%w: no files in field 'files'", app_errors.ErrValidation))
		return
	}

	docs, files, err := openUploads(headers)
	defer closeUploads(files)
	if err != nil {
		respondWithError(w, err)
		return
	}

	results := h.service.Ingest(r.Context(), docs)
	respondWithJSON(w, http.StatusOK, IngestResponse{Results: results})
}

// openUploads opens every uploaded file. On error the files opened so far are
// still returned so the caller can close them.
func openUploads(headers []*multipart.FileHeader) ([]service.Document, []multipart.File, error) {
	docs := make([]service.Document, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, files, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		docs = append(docs, service.Document{Name: fh.Filename, Size: fh.Size, Content: f})
	}
	return docs, files, nil
}

func closeUploads(files []multipart.File) {
	for _, f := range files {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close upload", "error", err)
		}
	}
}
