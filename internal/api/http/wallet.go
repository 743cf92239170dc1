package http

import (
	"net/http"

	"rentshare-backend/internal/domain"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := identityFrom(r.Context()).UserID
	balance, err := h.wallets.GetBalance(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, Balance: balance})
}

func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	entries, total, err := h.wallets.ListSettlements(r.Context(), identityFrom(r.Context()).UserID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.Settlement{}
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Settlement]{Items: entries, Total: total})
}
