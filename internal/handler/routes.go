package handler

import (
	"net/http"

	"go.uber.org/zap"

	"poetrydesk/internal/service"
)

// NewRouter builds the API mux with middleware applied. events serves the
// SSE change stream and may be nil.
func NewRouter(svcs *service.Services, events http.Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	mux := http.NewServeMux()

	for _, people := range []*service.PeopleService{svcs.Poets, svcs.Critics} {
		h := NewPeopleHandler(people, logger)
		base := "/api/" + people.Role().Table()

		mux.HandleFunc("GET "+base, h.List)
		mux.HandleFunc("POST "+base, h.Create)
		mux.HandleFunc("DELETE "+base, h.Clear)
		mux.HandleFunc("GET "+base+"/{phone}", h.Get)
		mux.HandleFunc("PUT "+base+"/{phone}", h.Update)
		mux.HandleFunc("DELETE "+base+"/{phone}", h.Delete)
	}

	poems := NewPoemHandler(svcs.Poems, logger)
	mux.HandleFunc("GET /api/poems", poems.List)
	mux.HandleFunc("POST /api/poems", poems.Submit)
	mux.HandleFunc("DELETE /api/poems", poems.Clear)

	imports := NewImportHandler(svcs.Importer, logger)
	mux.HandleFunc("POST /api/import", imports.ImportYAML)

	if events != nil {
		mux.Handle("GET /api/events", events)
	}

	return Chain(mux,
		RequestID,
		Recover(logger),
		CORS,
		Logger(logger),
	)
}
