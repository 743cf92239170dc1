package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rentshare-backend/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type createListingRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	DayRate     int64  `json:"day_rate" validate:"gte=0,lte=1000000000000"`
	Deposit     int64  `json:"deposit" validate:"gte=0,lte=1000000000000"`
	ShippingFee *int64 `json:"shipping_fee" validate:"omitempty,gte=0,lte=1000000000000"`
	Quantity    int32  `json:"quantity" validate:"gte=0"`
}

type updateListingRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	DayRate     *int64  `json:"day_rate" validate:"omitempty,gte=0,lte=1000000000000"`
	Deposit     *int64  `json:"deposit" validate:"omitempty,gte=0,lte=1000000000000"`
	ShippingFee *int64  `json:"shipping_fee" validate:"omitempty,gte=0,lte=1000000000000"`
	Quantity    *int32  `json:"quantity" validate:"omitempty,gte=0"`
}

type restockRequest struct {
	Quantity int32 `json:"quantity" validate:"gt=0"`
}

type createBookingRequest struct {
	ListingID int32  `json:"listing_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,date"`
	EndDate   string `json:"end_date" validate:"required,date"`
	RentalFee int64  `json:"rental_fee" validate:"gte=0,lte=1000000000000"`
}

type submitPaymentRequest struct {
	EvidenceRef   string `json:"evidence_ref" validate:"required,max=512"`
	ClaimedAmount int64  `json:"claimed_amount" validate:"gte=0,lte=1000000000000"`
}

type verifyPaymentRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type advanceRequest struct {
	Status string `json:"status" validate:"required"`
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int32 `json:"total"`
}

type balanceResponse struct {
	UserID  int32 `json:"user_id"`
	Balance int64 `json:"balance"`
}

type evidenceResponse struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

var dateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	_, err := time.Parse(domain.DateLayout, fl.Field().String())
	return err == nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("date", dateValidatorFunc)
	return v
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %v", domain.ErrInvalidInput, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad %s", domain.ErrInvalidInput, name)
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
