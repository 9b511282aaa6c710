package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"vitrine/internal/config"
	"vitrine/internal/domain"
	"vitrine/internal/repository"
	"vitrine/internal/service"
)

const testToken = "test-t0k3n"

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	dataFile := filepath.Join(dir, "data", "products.json")
	cfg := config.Config{
		Addr:          ":0",
		AdminPassword: "admin123",
		AdminToken:    testToken,
		DataFile:      dataFile,
		UploadsDir:    filepath.Join(dir, "uploads"),
		AdminDir:      filepath.Join(dir, "admin"),
		Business:      config.Business{Name: "Dim Dim Gourmet", PhoneNumber: "558591902359"},
	}
	store, err := repository.NewFileStore(dataFile)
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer(cfg, service.NewCatalogService(store), service.NewOrderService(cfg.Business))
	return srv, dataFile
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func createProduct(t *testing.T, srv *Server, fields map[string]string) domain.Product {
	t.Helper()
	body, ct := multipartBody(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := do(srv, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}
	var p domain.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	// wrong password
	{
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		if w := do(srv, req); w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	}

	// correct password yields the static token
	{
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"password":"admin123"}`))
		req.Header.Set("Content-Type", "application/json")
		w := do(srv, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		var got map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if got["token"] != testToken {
			t.Fatalf("unexpected token %q", got["token"])
		}
	}
}

func TestMutationWithoutToken_RejectsBeforeTouchingStore(t *testing.T) {
	srv, dataFile := newTestServer(t)
	createProduct(t, srv, map[string]string{"name": "Limão", "description": "d", "price": "4.00"})

	before, err := os.ReadFile(dataFile)
	if err != nil {
		t.Fatal(err)
	}

	body, ct := multipartBody(t, map[string]string{"name": "Hack", "description": "d", "price": "1.00"})
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", ct)
	// no Authorization header
	if w := do(srv, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// wrong token
	req2 := httptest.NewRequest(http.MethodDelete, "/api/products/whatever", nil)
	req2.Header.Set("Authorization", "Bearer nope")
	if w := do(srv, req2); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	after, err := os.ReadFile(dataFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("store changed by rejected mutation")
	}
}

func TestCreateProduct(t *testing.T) {
	srv, _ := newTestServer(t)

	p := createProduct(t, srv, map[string]string{
		"name":        "<b>Morango</b>",
		"description": "Sabor clássico",
		"price":       "4.50",
		"available":   "true",
	})
	if p.ID == "" {
		t.Fatalf("no id assigned")
	}
	if p.Name != "&lt;b&gt;Morango&lt;/b&gt;" {
		t.Fatalf("name not sanitized: %q", p.Name)
	}
	if p.Image != service.PlaceholderImage {
		t.Fatalf("expected placeholder image, got %q", p.Image)
	}

	// bad price
	body, ct := multipartBody(t, map[string]string{"name": "x", "description": "d", "price": "abc"})
	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if w := do(srv, req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad price, got %d", w.Code)
	}
}

func TestCreateProduct_WithImageFile(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Combo", "description": "d", "price": "22.00"} {
		_ = mw.WriteField(k, v)
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="combo.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("fake png bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := do(srv, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var p domain.Product
	_ = json.Unmarshal(w.Body.Bytes(), &p)
	if !strings.HasPrefix(p.Image, "/uploads/img-") || !strings.HasSuffix(p.Image, ".png") {
		t.Fatalf("unexpected stored image path %q", p.Image)
	}
}

func TestCreateProduct_RejectsNonImageUpload(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "x")
	_ = mw.WriteField("description", "d")
	_ = mw.WriteField("price", "1.00")
	part, _ := mw.CreateFormFile("image", "evil.bin") // application/octet-stream
	_, _ = part.Write([]byte("binary"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	if w := do(srv, req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d", w.Code)
	}
}

func TestUpdateProduct_PartialAndNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	p := createProduct(t, srv, map[string]string{
		"name": "Limão", "description": "Super refrescante", "price": "4.00", "available": "true",
	})

	body, ct := multipartBody(t, map[string]string{"price": "4.50"})
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+p.ID, body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := do(srv, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got domain.Product
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Name != "Limão" || got.Description != "Super refrescante" {
		t.Fatalf("partial update touched absent fields: %+v", got)
	}
	if got.Price.StringFixed(2) != "4.50" {
		t.Fatalf("price not updated: %s", got.Price)
	}

	// unknown id
	body2, ct2 := multipartBody(t, map[string]string{"price": "1.00"})
	req2 := httptest.NewRequest(http.MethodPut, "/api/products/nope", body2)
	req2.Header.Set("Content-Type", ct2)
	req2.Header.Set("Authorization", "Bearer "+testToken)
	if w := do(srv, req2); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	srv, _ := newTestServer(t)
	p := createProduct(t, srv, map[string]string{"name": "x", "description": "d", "price": "1.00"})

	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+p.ID, nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := do(srv, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got map[string]bool
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if !got["success"] {
		t.Fatalf("expected success=true, body=%s", w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodDelete, "/api/products/"+p.ID, nil)
	req2.Header.Set("Authorization", "Bearer "+testToken)
	if w := do(srv, req2); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestReorderProducts(t *testing.T) {
	srv, _ := newTestServer(t)
	a := createProduct(t, srv, map[string]string{"name": "a", "description": "d", "price": "1"})
	b := createProduct(t, srv, map[string]string{"name": "b", "description": "d", "price": "1"})
	c := createProduct(t, srv, map[string]string{"name": "c", "description": "d", "price": "1"})

	payload, _ := json.Marshal(map[string][]string{"orderedIds": {c.ID, a.ID, b.ID}})
	req := httptest.NewRequest(http.MethodPatch, "/api/products/reorder", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	if w := do(srv, req); w.Code != http.StatusOK {
		t.Fatalf("reorder failed: %d", w.Code)
	}

	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	var list []domain.Product
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 3 || list[0].ID != c.ID || list[1].ID != a.ID || list[2].ID != b.ID {
		t.Fatalf("unexpected order after reorder: %+v", list)
	}

	// not an array
	req2 := httptest.NewRequest(http.MethodPatch, "/api/products/reorder", strings.NewReader(`{"orderedIds":"abc"}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Authorization", "Bearer "+testToken)
	if w := do(srv, req2); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-array orderedIds, got %d", w.Code)
	}
}

func TestListProducts_Public(t *testing.T) {
	srv, _ := newTestServer(t)
	createProduct(t, srv, map[string]string{"name": "a", "description": "d", "price": "1"})

	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list should need no auth, got %d", w.Code)
	}
	var list []domain.Product
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("unexpected list response: %s", w.Body.String())
	}
}

func TestComposeOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	// missing address
	{
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"items":[{"id":"4","name":"Morango","price":4.5,"quantity":2}]}`))
		req.Header.Set("Content-Type", "application/json")
		if w := do(srv, req); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing address, got %d", w.Code)
		}
	}

	// valid order
	{
		req := httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"items":[{"id":"4","name":"Morango","price":4.5,"quantity":2}],"address":"Rua A, 10"}`))
		req.Header.Set("Content-Type", "application/json")
		w := do(srv, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		var got struct {
			Message string `json:"message"`
			Link    string `json:"link"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &got)
		if !strings.Contains(got.Message, "• 2x Morango - R$9,00") {
			t.Fatalf("unexpected message: %q", got.Message)
		}
		if !strings.HasPrefix(got.Link, "https://wa.me/558591902359?text=") {
			t.Fatalf("unexpected link: %q", got.Link)
		}
	}
}

func TestBusinessInfo(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got config.Business
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Name != "Dim Dim Gourmet" {
		t.Fatalf("unexpected business info: %+v", got)
	}
}
