package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"item-tracker/internal/models"
	"item-tracker/pkg/importer"

	"github.com/rs/zerolog/hlog"
)

const defaultMaxErrors = 50

// ImportsHandler handles Excel import operations
type ImportsHandler struct {
	Creator  importer.ItemCreator
	MaxBytes int64
}

// NewImportsHandler creates a new imports handler
func NewImportsHandler(creator importer.ItemCreator) *ImportsHandler {
	return &ImportsHandler{
		Creator:  creator,
		MaxBytes: 20 << 20, // 20 MB
	}
}

// UploadExcel imports items from the multipart "file" field. Optional form
// fields: sheet, dry_run, max_errors.
func (h *ImportsHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Content-Type must be multipart/form-data"})
		return
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid multipart form"})
		return
	}

	opts := importer.ImportOptions{
		Sheet:     r.FormValue("sheet"),
		DryRun:    r.FormValue("dry_run") == "true",
		MaxErrors: defaultMaxErrors,
	}
	if v := r.FormValue("max_errors"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxErrors = n
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "File is required"})
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Only .xlsx files are accepted"})
		return
	}

	sum, err := importer.ImportExcel(r.Context(), h.Creator, file, opts)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("file", header.Filename).Msg("import failed")
		writeJSON(w, http.StatusUnprocessableEntity, importResponse{Message: err.Error(), Summary: sum})
		return
	}

	hlog.FromRequest(r).Info().
		Str("file", header.Filename).
		Int("inserted", sum.Inserted).
		Int("errors", sum.Errors).
		Bool("dry_run", sum.DryRun).
		Msg("import finished")
	writeJSON(w, http.StatusOK, importResponse{Message: "Import complete", Summary: sum})
}

type importResponse struct {
	Message string                 `json:"message"`
	Summary importer.ImportSummary `json:"summary"`
}

// isXLSX checks if the uploaded file is an Excel .xlsx file
func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
