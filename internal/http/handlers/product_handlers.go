package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	models "github.com/rogerio-castellano/product-api/internal/models"
	repo "github.com/rogerio-castellano/product-api/internal/repo"
)

// ProductsPath is the route prefix of the product endpoints.
const ProductsPath = "/api/Product"

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
	}
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags Product
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {string} string "Internal error"
// @Router /api/Product/ [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll(r.Context())
	if err != nil {
		serverError(w, r, "could not fetch products", err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toResponse(p)
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		logger.Warn("Failed to write products response.", zap.Error(err))
	}
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags Product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/Product/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		serverError(w, r, "could not fetch product", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toResponse(product)); err != nil {
		logger.Warn("Failed to write product response.", zap.Error(err))
	}
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description The id is assigned by the database; any id in the body is ignored.
// @Tags Product
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Header 201 {string} Location "/api/Product/{id}"
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /api/Product/ [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := productRepo.Create(r.Context(), models.Product{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		serverError(w, r, "could not create product", err)
		return
	}

	location := http.Header{"Location": {fmt.Sprintf("%s/%d", ProductsPath, created.ID)}}
	if err := writeJSON(w, http.StatusCreated, toResponse(created), location); err != nil {
		logger.Warn("Failed to write created product.", zap.Error(err))
	}
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Overwrites every field of the product; there is no partial update.
// @Tags Product
// @Accept json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 "Updated"
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/Product/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	_, err = productRepo.Update(r.Context(), models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		serverError(w, r, "could not update product", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags Product
// @Param id path int true "Product ID"
// @Success 200 "Deleted"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/Product/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	if err := productRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		serverError(w, r, "could not delete product", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
