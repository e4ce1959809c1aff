package handler

import (
	"net/http"

	"go.uber.org/zap"

	"poetrydesk/internal/codec"
	"poetrydesk/internal/domain"
)

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/x-yaml",
	"csv":  "text/csv; charset=utf-8",
	"text": "text/plain; charset=utf-8",
}

// writeTable renders a table in the format named by ?format= (json when
// absent)
func writeTable(w http.ResponseWriter, r *http.Request, logger *zap.Logger, table *domain.Table) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	exporter, err := codec.ForFormat(format)
	if err != nil {
		writeError(w, logger, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentTypes[exporter.Format()])
	w.WriteHeader(http.StatusOK)
	if err := exporter.Export(table, w); err != nil {
		// Headers are already sent
		logger.Warn("failed to write table", zap.Error(err))
	}
}
