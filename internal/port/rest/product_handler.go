package rest

import (
	"errors"
	"net/http"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/service"
	"github.com/go-chi/chi/v5"
)

const msgProductNotFound = "Product not found"

type ProductHandler struct {
	products       service.ProductService
	maxUploadBytes int64
	log            logger.Logger
}

func NewProductHandler(products service.ProductService, maxUploadBytes int64, log logger.Logger) *ProductHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &ProductHandler{products: products, maxUploadBytes: maxUploadBytes, log: log}
}

// productRequest is shared by create and update; absent fields are left as
// they are (or as the sample defaults on create).
type productRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Brand       *string  `json:"brand"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Images      []string `json:"images" validate:"omitempty,dive,required"`
	Sizes       []string `json:"sizes" validate:"omitempty,dive,required"`
	Gender      *string  `json:"gender"`
}

func (req productRequest) toUpdate() entity.ProductUpdate {
	return entity.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		Sizes:       req.Sizes,
		Gender:      req.Gender,
	}
}

type byIDsRequest struct {
	IDs []string `json:"ids"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) GetByIDs(w http.ResponseWriter, r *http.Request) {
	var req byIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid or empty ids")
		return
	}
	products, err := h.products.GetByIDs(r.Context(), req.IDs)
	if err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	// An empty body creates the sample product.
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, h.log, err, msgProductNotFound)
			return
		}
	}
	product, err := h.products.Create(r.Context(), req.toUpdate())
	if err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	product, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondMessage(w, http.StatusRequestEntityTooLarge, "Image is too large")
			return
		}
		respondMessage(w, http.StatusBadRequest, "An image file is required")
		return
	}
	defer file.Close()

	url, err := h.products.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		respondError(w, h.log, err, msgProductNotFound)
		return
	}
	respondJSON(w, http.StatusCreated, uploadResponse{URL: url})
}
