package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	api "github.com/rogerio-castellano/product-api/internal/http"
	handler "github.com/rogerio-castellano/product-api/internal/http/handlers"
	"github.com/rogerio-castellano/product-api/internal/repo"
)

var productRepo *repo.InMemoryProductRepository

func init() {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterOptions{})
}

func clearAllProducts() {
	productRepo.Clear()
}

func ptr(s string) *string { return &s }

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, "/api/Product/", p)
}

func getProduct(r http.Handler, id int) *httptest.ResponseRecorder {
	return do(r, http.MethodGet, fmt.Sprintf("/api/Product/%d", id), nil)
}

func updateProduct(r http.Handler, id int, p handler.ProductRequest) *httptest.ResponseRecorder {
	return do(r, http.MethodPut, fmt.Sprintf("/api/Product/%d", id), p)
}

func deleteProduct(r http.Handler, id int) *httptest.ResponseRecorder {
	return do(r, http.MethodDelete, fmt.Sprintf("/api/Product/%d", id), nil)
}

func decodeProduct(w *httptest.ResponseRecorder) (handler.ProductResponse, error) {
	var resp handler.ProductResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	return resp, err
}
