package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myMarketplace/business/user"
	"myMarketplace/domain"
	"myMarketplace/internal/middleware"
	"myMarketplace/pkg/serrors"
	"myMarketplace/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrdersService struct {
	mock.Mock
	OrdersService
}

func (m *mockOrdersService) Checkout(ctx context.Context, buyerID, addressID uint) (domain.Order, error) {
	args := m.Called(ctx, buyerID, addressID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrdersService) ListBuyerOrders(ctx context.Context, buyerID uint, statuses []domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(ctx, buyerID, statuses)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrdersService) Transition(ctx context.Context, orderID uint, next domain.OrderStatus) (domain.Order, error) {
	args := m.Called(ctx, orderID, next)
	return args.Get(0).(domain.Order), args.Error(1)
}

type mockUserService struct {
	mock.Mock
	UserService
}

func (m *mockUserService) Login(ctx context.Context, in user.LoginInput) (user.LoginResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(user.LoginResult), args.Error(1)
}

type mockDeliveryService struct {
	mock.Mock
	DeliveryService
}

func (m *mockDeliveryService) CalculateEarning(orderValue float64) (float64, error) {
	args := m.Called(orderValue)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockDeliveryService) Schedule() domain.EarningSchedule {
	args := m.Called()
	return args.Get(0).(domain.EarningSchedule)
}

func (m *mockDeliveryService) Earnings(ctx context.Context, agentID uint, from, to time.Time) (domain.AgentEarnings, error) {
	args := m.Called(ctx, agentID, from, to)
	return args.Get(0).(domain.AgentEarnings), args.Error(1)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// serve runs a handler and renders any returned error like the server does.
func serve(c echo.Context, h echo.HandlerFunc) {
	if err := h(c); err != nil {
		middleware.ErrorHandler(err, c)
	}
}

func TestOrdersHandler_Checkout(t *testing.T) {
	validate := utils.NewValidator()

	t.Run("should create the order for the caller", func(t *testing.T) {
		svc := new(mockOrdersService)
		svc.On("Checkout", mock.Anything, uint(7), uint(3)).
			Return(domain.Order{ID: 1, Status: domain.OrderStatusPending, TotalAmount: 120}, nil)
		h := NewOrdersHandler(svc, validate)

		c, rec := newContext(http.MethodPost, "/api/v1/orders", `{"address_id":3}`)
		c.Set(middleware.ContextUserID, uint(7))
		serve(c, h.Checkout)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"PENDING"`)
		svc.AssertExpectations(t)
	})

	t.Run("should reject a missing address", func(t *testing.T) {
		svc := new(mockOrdersService)
		h := NewOrdersHandler(svc, validate)

		c, rec := newContext(http.MethodPost, "/api/v1/orders", `{}`)
		c.Set(middleware.ContextUserID, uint(7))
		serve(c, h.Checkout)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should map service conflicts", func(t *testing.T) {
		svc := new(mockOrdersService)
		svc.On("Checkout", mock.Anything, uint(7), uint(3)).
			Return(domain.Order{}, serrors.With(serrors.ErrConflict, "insufficient stock for \"Kettle\""))
		h := NewOrdersHandler(svc, validate)

		c, rec := newContext(http.MethodPost, "/api/v1/orders", `{"address_id":3}`)
		c.Set(middleware.ContextUserID, uint(7))
		serve(c, h.Checkout)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient stock")
	})
}

func TestOrdersHandler_StatusFilters(t *testing.T) {
	svc := new(mockOrdersService)
	svc.On("ListBuyerOrders", mock.Anything, uint(7), []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusShipped}).
		Return([]domain.Order{}, nil)
	h := NewOrdersHandler(svc, utils.NewValidator())

	c, rec := newContext(http.MethodGet, "/api/v1/orders?status=pending,SHIPPED", "")
	c.Set(middleware.ContextUserID, uint(7))
	serve(c, h.ListBuyerOrders)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/api/v1/orders?status=LOST", "")
	c.Set(middleware.ContextUserID, uint(7))
	serve(c, h.ListBuyerOrders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersHandler_ForceStatus(t *testing.T) {
	svc := new(mockOrdersService)
	svc.On("Transition", mock.Anything, uint(5), domain.OrderStatusCancelled).
		Return(domain.Order{ID: 5, Status: domain.OrderStatusCancelled}, nil)
	h := NewOrdersHandler(svc, utils.NewValidator())

	c, rec := newContext(http.MethodPatch, "/api/v1/admin/orders/5/status", `{"status":"cancelled"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	serve(c, h.ForceStatus)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Login(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	svc := new(mockUserService)
	svc.On("Login", mock.Anything, mock.MatchedBy(func(in user.LoginInput) bool {
		return in.Role == domain.RoleDeliveryAgent && in.Email == "a@example.com"
	})).Return(user.LoginResult{Token: "tok", ExpiresAt: expires}, nil)
	h := NewUserHandler(svc, false)

	c, rec := newContext(http.MethodPost, "/api/v1/auth/delivery-agent/login", `{"email":"a@example.com","password":"secret1"}`)
	c.SetParamNames("role")
	c.SetParamValues("delivery-agent")
	serve(c, h.Login)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	c, rec = newContext(http.MethodPost, "/api/v1/auth/admin/login", `{}`)
	c.SetParamNames("role")
	c.SetParamValues("admin")
	serve(c, h.Login)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeliveryHandler(t *testing.T) {
	svc := new(mockDeliveryService)
	h := NewDeliveryHandler(svc, utils.NewValidator())
	h.now = func() time.Time { return time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC) }

	t.Run("quote", func(t *testing.T) {
		schedule, err := domain.NewEarningSchedule([]domain.EarningTier{
			{MinOrderValue: 0, BaseFee: 30},
			{MinOrderValue: 500, BaseFee: 40, CommissionRate: 0.02},
		})
		require.NoError(t, err)
		svc.On("CalculateEarning", 600.0).Return(52.0, nil).Once()
		svc.On("Schedule").Return(schedule).Once()

		c, rec := newContext(http.MethodGet, "/api/v1/admin/delivery/earning?order_value=600", "")
		serve(c, h.QuoteEarning)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"agent_earning":52`)
		assert.Contains(t, body, `"delivery_fee":40`)
		assert.Contains(t, body, `"min_order_value":500`)

		c, rec = newContext(http.MethodGet, "/api/v1/admin/delivery/earning?order_value=abc", "")
		serve(c, h.QuoteEarning)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("earnings date range is inclusive of the last day", func(t *testing.T) {
		from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		svc.On("Earnings", mock.Anything, uint(9), from, to).Return(domain.AgentEarnings{AgentID: 9}, nil).Once()

		c, rec := newContext(http.MethodGet, "/api/v1/delivery/earnings?from=2026-06-01&to=2026-06-30", "")
		c.Set(middleware.ContextUserID, uint(9))
		serve(c, h.Earnings)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects a bad date", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/v1/delivery/earnings?from=yesterday", "")
		serve(c, h.Earnings)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
