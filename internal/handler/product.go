package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"starclicker-rest-api/internal/service"
	"starclicker-rest-api/pkg/apierror"
	"starclicker-rest-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ProductHandler handles product-catalog HTTP requests.
type ProductHandler struct {
	economy *service.EconomyService
	query   *service.QueryService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(economy *service.EconomyService, query *service.QueryService) *ProductHandler {
	return &ProductHandler{economy: economy, query: query}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.query.ListProducts(r.Context())
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.OK(w, products)
}

// purchaseRequest is the body of POST /api/v1/products/{product_id}/purchase.
type purchaseRequest struct {
	PlayerID int64 `json:"player_id"`
}

// Purchase handles POST /api/v1/products/{product_id}/purchase
func (h *ProductHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		response.Error(w, apierror.BadRequest("product_id must be a positive integer"))
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON body"))
		return
	}
	if req.PlayerID <= 0 {
		response.Error(w, apierror.BadRequest("player_id must be a positive integer"))
		return
	}

	result, err := h.economy.PurchaseProduct(r.Context(), req.PlayerID, productID)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}

	response.OK(w, result)
}
