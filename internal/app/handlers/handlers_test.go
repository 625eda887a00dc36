package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/catalog-api/internal/app/handlers"
	"github.com/linemk/catalog-api/internal/domain/models"
	security "github.com/linemk/catalog-api/internal/jwt-new"
	"github.com/linemk/catalog-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/catalog-api/internal/service"
	"github.com/linemk/catalog-api/internal/storage"
	"github.com/stretchr/testify/assert"
)

// fakeOrderService — фиктивная реализация для тестирования обработчиков.
type fakeOrderService struct {
	resp    *service.OrderResponse
	listing *service.OrderListResponse
	err     error
}

func (f *fakeOrderService) PlaceOrder(ctx context.Context, userID int64, lines []service.OrderLineInput) (*service.OrderResponse, error) {
	return f.resp, f.err
}

func (f *fakeOrderService) ListMyOrders(ctx context.Context, userID int64, status string, limit, offset int) (*service.OrderListResponse, error) {
	return f.listing, f.err
}

func (f *fakeOrderService) ListAllOrders(ctx context.Context, limit, offset int) ([]*service.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*service.OrderResponse{f.resp}, nil
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string) (*service.OrderResponse, error) {
	return f.resp, f.err
}

func (f *fakeOrderService) CancelOrder(ctx context.Context, orderID int64) (*service.OrderResponse, error) {
	return f.resp, f.err
}

func (f *fakeOrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	return f.err
}

type fakeAuthService struct {
	user *models.User
	pair *security.TokenPair
	err  error
}

func (f *fakeAuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*security.TokenPair, error) {
	return f.pair, f.err
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*security.TokenPair, error) {
	return f.pair, f.err
}

type fakeCategoryService struct {
	category *models.Category
	err      error
}

func (f *fakeCategoryService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategoryService) ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Category{f.category}, nil
}

func (f *fakeCategoryService) UpdateCategory(ctx context.Context, id int64, upd service.CategoryUpdate) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return f.err
}

type fakeSearchService struct {
	resp *service.SearchResponse
	err  error
}

func (f *fakeSearchService) SearchProducts(ctx context.Context, query service.SearchQuery, limit, offset int) (*service.SearchResponse, error) {
	return f.resp, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withUserID кладёт userID в контекст так же, как это делает jwt-middleware.
func withUserID(req *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(req.Context(), jwtmiddleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestPlaceOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{resp: &service.OrderResponse{
		ID:     10,
		UserID: 7,
		Status: "pending",
		Products: []service.OrderProduct{
			{ProductID: 1, Quantity: 3},
		},
	}}
	handler := handlers.PlaceOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"products": [{"product_id": 1, "quantity": 3}]}`
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp service.OrderResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "pending", resp.Status)
}

func TestPlaceOrderHandler_NoUserInContext(t *testing.T) {
	handler := handlers.PlaceOrderHandler(testLogger(), &fakeOrderService{})

	reqBody := `{"products": [{"product_id": 1, "quantity": 3}]}`
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected 401 without userID in context")
}

func TestPlaceOrderHandler_InvalidJSON(t *testing.T) {
	handler := handlers.PlaceOrderHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(`{"products": [`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for invalid JSON")
}

func TestPlaceOrderHandler_EmptyProducts(t *testing.T) {
	handler := handlers.PlaceOrderHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(`{"products": []}`))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for empty product list")
}

func TestPlaceOrderHandler_InsufficientStock(t *testing.T) {
	fakeSvc := &fakeOrderService{err: &storage.InsufficientStockError{
		ProductName: "laptop", Available: 2, Requested: 5,
	}}
	handler := handlers.PlaceOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"products": [{"product_id": 1, "quantity": 5}]}`
	req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(reqBody))
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for insufficient stock")
	assert.Contains(t, rr.Body.String(), "not enough quantity for product laptop")
}

func TestMyOrdersHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{listing: &service.OrderListResponse{
		CurrentPage: 1,
		TotalPages:  1,
		Orders:      []*service.OrderResponse{{ID: 10, UserID: 7, Status: "pending"}},
	}}
	handler := handlers.MyOrdersHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/orders/my-orders?limit=10&offset=0", nil)
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp service.OrderListResponse
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentPage)
	assert.Len(t, resp.Orders, 1)
}

func TestMyOrdersHandler_BadPagination(t *testing.T) {
	handler := handlers.MyOrdersHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("GET", "/api/orders/my-orders?limit=abc", nil)
	req = withUserID(req, 7)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for non-numeric limit")
}

func TestUpdateOrderHandler_IllegalTransition(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrIllegalTransition}

	router := chi.NewRouter()
	router.Put("/api/orders/{id}", handlers.UpdateOrderHandler(testLogger(), fakeSvc))

	req := httptest.NewRequest("PUT", "/api/orders/10", bytes.NewBufferString(`{"status": "shipped"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for illegal status transition")
}

func TestUpdateOrderHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: storage.ErrOrderNotFound}

	router := chi.NewRouter()
	router.Put("/api/orders/{id}", handlers.UpdateOrderHandler(testLogger(), fakeSvc))

	req := httptest.NewRequest("PUT", "/api/orders/999", bytes.NewBufferString(`{"status": "shipped"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected 404 for missing order")
	assert.Contains(t, rr.Body.String(), "order not found")
}

func TestUpdateOrderHandler_BadID(t *testing.T) {
	router := chi.NewRouter()
	router.Put("/api/orders/{id}", handlers.UpdateOrderHandler(testLogger(), &fakeOrderService{}))

	req := httptest.NewRequest("PUT", "/api/orders/abc", bytes.NewBufferString(`{"status": "shipped"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for non-numeric id")
}

func TestCancelOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{resp: &service.OrderResponse{ID: 10, Status: "cancelled"}}

	router := chi.NewRouter()
	router.Post("/api/orders/{id}/cancel", handlers.CancelOrderHandler(testLogger(), fakeSvc))

	req := httptest.NewRequest("POST", "/api/orders/10/cancel", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cancelled")
}

func TestDeleteOrderHandler_Success(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/api/orders/{id}", handlers.DeleteOrderHandler(testLogger(), &fakeOrderService{}))

	req := httptest.NewRequest("DELETE", "/api/orders/10", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code, "Expected 204 for successful delete")
}

func TestRegisterHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{user: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"}}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")
	// Хэш пароля не должен попадать в ответ.
	assert.NotContains(t, rr.Body.String(), "pass")
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	fakeSvc := &fakeAuthService{err: storage.ErrUserExists}
	handler := handlers.RegisterHandler(testLogger(), fakeSvc)

	reqBody := `{"username": "testuser", "email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for duplicate email")
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	handler := handlers.RegisterHandler(testLogger(), &fakeAuthService{})

	reqBody := `{"username": "testuser", "email": "test@example.com", "password": "short"}`
	req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for short password")
}

func TestLoginHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{pair: &security.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "bearer",
	}}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp security.TokenPair
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "test@example.com", "password": "wrongpass"}`
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected 401 for invalid credentials")
	assert.Contains(t, rr.Body.String(), "invalid credentials")
}

func TestCreateCategoryHandler_Success(t *testing.T) {
	fakeSvc := &fakeCategoryService{category: &models.Category{ID: 1, Name: "electronics"}}
	handler := handlers.CreateCategoryHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "electronics", "description": "gadgets"}`
	req := httptest.NewRequest("POST", "/api/categories", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateCategoryHandler_MissingName(t *testing.T) {
	handler := handlers.CreateCategoryHandler(testLogger(), &fakeCategoryService{})

	req := httptest.NewRequest("POST", "/api/categories", bytes.NewBufferString(`{"description": "gadgets"}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 when name is missing")
}

func TestUpdateCategoryHandler_NotFound(t *testing.T) {
	fakeSvc := &fakeCategoryService{err: storage.ErrCategoryNotFound}

	router := chi.NewRouter()
	router.Put("/api/categories/{id}", handlers.UpdateCategoryHandler(testLogger(), fakeSvc))

	req := httptest.NewRequest("PUT", "/api/categories/99", bytes.NewBufferString(`{"name": "books"}`))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSearchProductsHandler_Success(t *testing.T) {
	fakeSvc := &fakeSearchService{resp: &service.SearchResponse{
		Products:      []*models.Product{{ID: 1, Name: "laptop", Price: 1500}},
		TotalProducts: 1,
		TotalPages:    1,
		CurrentPage:   1,
		Limit:         10,
	}}
	handler := handlers.SearchProductsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/search/products?product_name=lap&min_price=100", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "laptop")
}

func TestSearchProductsHandler_BadMinPrice(t *testing.T) {
	handler := handlers.SearchProductsHandler(testLogger(), &fakeSearchService{})

	req := httptest.NewRequest("GET", "/api/search/products?min_price=cheap", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected 400 for non-numeric min_price")
}

func TestSearchProductsHandler_NoResults(t *testing.T) {
	fakeSvc := &fakeSearchService{err: service.ErrNoProductsFound}
	handler := handlers.SearchProductsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/api/search/products?product_name=unobtainium", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code, "Expected 404 when nothing matches")
}
