package http

import (
	"net/http"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/service"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dates, err := domain.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.CreateBooking(r.Context(), service.CreateBookingInput{
		RenterID:  identityFrom(r.Context()).UserID,
		ListingID: req.ListingID,
		Range:     dates,
		RentalFee: req.RentalFee,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), identityFrom(r.Context()).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	history, err := h.bookings.History(r.Context(), identityFrom(r.Context()).UserID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if history == nil {
		history = []domain.BookingTransition{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.BookingTransition]{Items: history, Total: int32(len(history))})
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req submitPaymentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.SubmitPayment(r.Context(), id, identityFrom(r.Context()).UserID, req.EvidenceRef, req.ClaimedAmount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req verifyPaymentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.VerifyPayment(r.Context(), id, identityFrom(r.Context()).UserID, *req.Accept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) AdvanceBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req advanceRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.Advance(r.Context(), id, identityFrom(r.Context()).UserID, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListForOwner(r.Context(), identityFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func (h *Handler) ListForRenter(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListForRenter(r.Context(), identityFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBookings(w, bookings)
}

func writeBookings(w http.ResponseWriter, bookings []domain.Booking) {
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Booking]{Items: bookings, Total: int32(len(bookings))})
}
