package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-api/internal/db"
	api "github.com/rogerio-castellano/product-api/internal/http"
	handler "github.com/rogerio-castellano/product-api/internal/http/handlers"
	"github.com/rogerio-castellano/product-api/internal/repo"
)

// stores holds one open database per repository driver under test.
var stores = map[string]*db.Store{}

// testDrivers lists the drivers the suite runs against; PRODUCTAPI_TEST_DRIVER
// narrows it to a single one.
func testDrivers() []string {
	if d := os.Getenv("PRODUCTAPI_TEST_DRIVER"); d != "" {
		return []string{d}
	}
	return []string{repo.DriverSQLite, repo.DriverGorm}
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "product-api-*")
	if err != nil {
		log.Fatal("❌ Could not create temp dir:", err)
	}

	for _, driver := range testDrivers() {
		dsn := "file:" + filepath.Join(dir, driver+".db")
		s, err := db.OpenStore(context.Background(), driver, dsn, zap.NewNop())
		if err != nil {
			log.Fatalf("❌ Could not connect to %s database: %v", driver, err)
		}
		stores[driver] = s
	}

	code := m.Run()

	for _, s := range stores {
		s.Close()
	}
	os.RemoveAll(dir)
	os.Exit(code)
}

// forEachDriver runs fn once per store, with the handlers wired to it and the
// Product table emptied afterwards.
func forEachDriver(t *testing.T, fn func(t *testing.T, s *db.Store)) {
	for _, driver := range testDrivers() {
		s := stores[driver]
		t.Run(driver, func(t *testing.T) {
			handler.SetProductRepo(s.Products)
			handler.SetPinger(s)
			t.Cleanup(func() { clearAllProducts(s) })

			fn(t, s)
		})
	}
}

func newRouter() http.Handler {
	return api.NewRouter(api.RouterOptions{})
}

func clearAllProducts(s *db.Store) {
	_, err := s.DB().ExecContext(context.Background(), `DELETE FROM "Product"`)
	if err != nil {
		fmt.Println(fmt.Errorf("failed to clear Product table: %w", err))
	}
	_, _ = s.DB().ExecContext(context.Background(), `DELETE FROM sqlite_sequence WHERE name = 'Product'`)
}

func ptr(s string) *string { return &s }

func send(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// statusOf sends a request and returns its status code, or 0 on transport errors.
// Unlike send it is safe to call from goroutines other than the test's.
func statusOf(client *http.Client, method, url string, body any) int {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}
