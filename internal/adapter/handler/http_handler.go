package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/smallbatch/roastery/internal/core/domain"
	"github.com/smallbatch/roastery/internal/core/service"
	"github.com/smallbatch/roastery/internal/port"
)

// HTTPHandler exposes the stock ledger and listing services as the JSON
// surface. Every response, success or failure, is a single JSON object.
type HTTPHandler struct {
	ledger    *service.Ledger
	catalog   *service.CatalogService
	inventory *service.InventoryService

	catalogStock   port.StockStore
	inventoryStock port.StockStore

	log *slog.Logger
}

func NewHTTPHandler(
	ledger *service.Ledger,
	catalog *service.CatalogService,
	inventory *service.InventoryService,
	catalogStock, inventoryStock port.StockStore,
	log *slog.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		ledger:         ledger,
		catalog:        catalog,
		inventory:      inventory,
		catalogStock:   catalogStock,
		inventoryStock: inventoryStock,
		log:            log,
	}
}

// Routes builds the service router.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(RequestLogger(h.log))

	r.Get("/health", h.HealthCheck)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/listbeans", h.ListBeans)
		r.Post("/getbeans/{id}/{quantity}", h.GetBeans)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/getproducts", h.GetProducts)
		r.Get("/getproducts/{fresh}", h.GetProducts)
		r.Post("/catalogproduct", h.CreateProduct)
		r.Post("/sellproduct/{id}/{quantity}", h.SellProduct)
	})

	return r
}

type errorBody struct {
	Error string `json:"error"`
}

type exceptionBody struct {
	Exception string `json:"exception"`
}

type successBody struct {
	Success int `json:"success"`
}

// createProductRequest mirrors the catalog ingest JSON body.
type createProductRequest struct {
	ProductCode   string    `json:"product_code"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	TimeRoasted   time.Time `json:"time_roasted"`
	RoastingNotes string    `json:"roasting_notes"`
	Img           string    `json:"img"`
}

// ListBeans serves GET /inventory/listbeans.
func (h *HTTPHandler) ListBeans(w http.ResponseWriter, r *http.Request) {
	listing, err := h.inventory.List(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// GetBeans serves POST /inventory/getbeans/{id}/{quantity}. Quantity is a
// positive decimal number of kilograms.
func (h *HTTPHandler) GetBeans(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	quantity, err := strconv.ParseFloat(chi.URLParam(r, "quantity"), 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.ErrInvalidQuantity.Error()})
		return
	}

	lot, err := h.ledger.Withdraw(r.Context(), h.inventoryStock, id, quantity)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

// GetProducts serves GET /catalog/getproducts and /catalog/getproducts/{fresh}.
// The fresh flag is 0/1 (also accepts true/false) and defaults to true.
func (h *HTTPHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	freshOnly := true
	if raw := chi.URLParam(r, "fresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "fresh must be a boolean 0/1"})
			return
		}
		freshOnly = parsed
	}

	listing, err := h.catalog.List(r.Context(), freshOnly)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// CreateProduct serves POST /catalog/catalogproduct.
func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "No JSON body in request"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body"})
		return
	}

	item := domain.CatalogItem{
		ProductCode:   req.ProductCode,
		Quantity:      req.Quantity,
		Price:         req.Price,
		TimeRoasted:   req.TimeRoasted,
		RoastingNotes: req.RoastingNotes,
		Img:           req.Img,
	}
	if err := h.catalog.Create(r.Context(), &item); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: 1})
}

// SellProduct serves POST /catalog/sellproduct/{id}/{quantity}. Quantity is
// a positive whole number of bags.
func (h *HTTPHandler) SellProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	quantity, err := strconv.ParseInt(chi.URLParam(r, "quantity"), 10, 64)
	if err != nil || quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.ErrInvalidQuantity.Error()})
		return
	}

	item, err := h.ledger.Withdraw(r.Context(), h.catalogStock, id, float64(quantity))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "id must be an integer"})
		return 0, false
	}
	return id, true
}

// writeFailure maps the error taxonomy to status codes while keeping the
// legacy JSON shapes: client faults carry {"error"}, server faults
// {"exception"}.
func (h *HTTPHandler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *domain.NotFoundError
	var insufficient *domain.InsufficientStockError
	var persistence *domain.PersistenceError

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFound.Error()})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, errorBody{Error: insufficient.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrMissingFields):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusServiceUnavailable, exceptionBody{Exception: err.Error()})
	case errors.As(err, &persistence):
		h.log.Error("store failure", "intent", persistence.Intent, "path", r.URL.Path, "err", persistence.Err)
		writeJSON(w, http.StatusInternalServerError, exceptionBody{Exception: persistence.Intent + " failed"})
	default:
		h.log.Error("unexpected failure", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, exceptionBody{Exception: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
