package http

import (
	"context"
	"net/http"

	"rentshare-backend/internal/security"
	"rentshare-backend/internal/service"
	"rentshare-backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	BaseURL        string
	MaxUploadBytes int64
	AllowedTypes   []string
}

type Handler struct {
	bookings service.BookingService
	listings service.ListingService
	wallets  service.WalletService
	evidence storage.EvidenceStore
	tokens   security.TokenManager
	db       Pinger
	validate *validator.Validate
	opts     Options
}

func NewHandler(
	bookings service.BookingService,
	listings service.ListingService,
	wallets service.WalletService,
	evidence storage.EvidenceStore,
	tokens security.TokenManager,
	db Pinger,
	opts Options,
) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.AllowedTypes) == 0 {
		opts.AllowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	return &Handler{
		bookings: bookings,
		listings: listings,
		wallets:  wallets,
		evidence: evidence,
		tokens:   tokens,
		db:       db,
		validate: newValidator(),
		opts:     opts,
	}
}

// Router registers every route. Route names key config.EndpointSecurityConfig.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet).Name("healthz")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(h.authMiddleware)

	api.HandleFunc("/listings", h.CreateListing).Methods(http.MethodPost).Name("CreateListing")
	api.HandleFunc("/listings", h.ListListings).Methods(http.MethodGet).Name("ListListings")
	api.HandleFunc("/listings/{id:[0-9]+}", h.GetListing).Methods(http.MethodGet).Name("GetListing")
	api.HandleFunc("/listings/{id:[0-9]+}", h.UpdateListing).Methods(http.MethodPut).Name("UpdateListing")
	api.HandleFunc("/listings/{id:[0-9]+}/restock", h.Restock).Methods(http.MethodPost).Name("Restock")
	api.HandleFunc("/owners/me/listings", h.ListMyListings).Methods(http.MethodGet).Name("ListMyListings")

	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost).Name("CreateBooking")
	api.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet).Name("GetBooking")
	api.HandleFunc("/bookings/{id:[0-9]+}/history", h.GetHistory).Methods(http.MethodGet).Name("GetHistory")
	api.HandleFunc("/bookings/{id:[0-9]+}/payment", h.SubmitPayment).Methods(http.MethodPost).Name("SubmitPayment")
	api.HandleFunc("/bookings/{id:[0-9]+}/payment/verify", h.VerifyPayment).Methods(http.MethodPost).Name("VerifyPayment")
	api.HandleFunc("/bookings/{id:[0-9]+}/status", h.AdvanceBooking).Methods(http.MethodPost).Name("AdvanceBooking")
	api.HandleFunc("/owners/me/bookings", h.ListForOwner).Methods(http.MethodGet).Name("ListForOwner")
	api.HandleFunc("/renters/me/bookings", h.ListForRenter).Methods(http.MethodGet).Name("ListForRenter")

	api.HandleFunc("/wallet", h.GetBalance).Methods(http.MethodGet).Name("GetBalance")
	api.HandleFunc("/wallet/settlements", h.ListSettlements).Methods(http.MethodGet).Name("ListSettlements")

	api.HandleFunc("/evidence", h.UploadEvidence).Methods(http.MethodPut).Name("UploadEvidence")
	api.HandleFunc("/evidence/{ref:.+}", h.DownloadEvidence).Methods(http.MethodGet).Name("DownloadEvidence")

	return router
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
