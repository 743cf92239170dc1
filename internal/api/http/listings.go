package http

import (
	"net/http"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/service"
)

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	caller := identityFrom(r.Context())
	listing, err := h.listings.CreateListing(r.Context(), caller.UserID, service.CreateListingInput{
		Title:       req.Title,
		DayRate:     req.DayRate,
		Deposit:     req.Deposit,
		ShippingFee: req.ShippingFee,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	listings, total, err := h.listings.ListListings(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Listing]{Items: listings, Total: total})
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateListingRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	listing, err := h.listings.UpdateListing(r.Context(), identityFrom(r.Context()).UserID, id, service.UpdateListingInput{
		Title:       req.Title,
		DayRate:     req.DayRate,
		Deposit:     req.Deposit,
		ShippingFee: req.ShippingFee,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req restockRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	listing, err := h.listings.Restock(r.Context(), identityFrom(r.Context()).UserID, id, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) ListMyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListByOwner(r.Context(), identityFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Listing]{Items: listings, Total: int32(len(listings))})
}
