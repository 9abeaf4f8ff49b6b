package misc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db            dbPinger
	quotesManager *QuotesManager
	versionInfo   string
}

func NewHandler(
	db dbPinger,
	quotesManager *QuotesManager,
	versionInfo string,
) *Handler {
	return &Handler{
		db:            db,
		quotesManager: quotesManager,
		versionInfo:   versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/api/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/api/quote/random", handler.handleGetRandomQuote).Methods("GET").Name("quote")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	if err := handler.db.Ping(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Errorf("health check, db ping: %s", err)
		pkg.WriteResponseBytes(
			w, pkg.ContentType.JSON,
			[]byte(`{"status": "unhealthy", "database": "down"}`),
			http.StatusServiceUnavailable,
		)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"status": "ok", "database": "up"}`)
}

func (handler *Handler) handleGetRandomQuote(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.quote")
	defer span.End()

	q := handler.quotesManager.RandomQuote()
	if category := r.URL.Query().Get("category"); category != "" {
		q = handler.quotesManager.RandomQuoteByCategory(category)
	}

	qBytes, err := json.Marshal(q)
	if err != nil {
		log.Errorf("marshal quote error: %s", err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, qBytes)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
