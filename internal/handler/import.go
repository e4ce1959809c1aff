package handler

import (
	"net/http"

	"go.uber.org/zap"

	"poetrydesk/internal/loader"
	"poetrydesk/internal/service"
)

// MaxImportSize caps the YAML body accepted by the import endpoint
const MaxImportSize = 8 << 20

// ImportHandler handles dataset uploads
type ImportHandler struct {
	importer *service.Importer
	logger   *zap.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importer *service.Importer, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, logger: logger}
}

// ImportYAML imports poets, critics and poems from a YAML body. Records
// that fail are listed in the result; the request itself still succeeds.
func (h *ImportHandler) ImportYAML(w http.ResponseWriter, r *http.Request) {
	ds, err := loader.DecodeYAML(http.MaxBytesReader(w, r.Body, MaxImportSize))
	if err != nil {
		writeError(w, h.logger, "Invalid dataset", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.importer.Import(r.Context(), ds)
	if err != nil {
		writeServiceError(w, r, h.logger, "import dataset", err)
		return
	}
	writeJSON(w, h.logger, result, http.StatusOK)
}
