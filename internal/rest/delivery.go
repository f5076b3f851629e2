package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"myMarketplace/domain"
	"myMarketplace/internal/middleware"
	"myMarketplace/pkg/serrors"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type DeliveryService interface {
	AssignPendingOrders(ctx context.Context) (domain.AssignmentReport, error)
	ManualAssign(ctx context.Context, orderID, agentID uint) (domain.Order, error)
	CalculateEarning(orderValue float64) (float64, error)
	Schedule() domain.EarningSchedule
	ListAgents(ctx context.Context) ([]domain.DeliveryAgent, error)
	ListAssigned(ctx context.Context, agentID uint, statuses []domain.OrderStatus) ([]domain.Order, error)
	GetAssigned(ctx context.Context, agentID, orderID uint) (domain.Order, error)
	PickUp(ctx context.Context, agentID, orderID uint) (domain.Order, error)
	Deliver(ctx context.Context, agentID, orderID uint) (domain.Order, error)
	SetAvailability(ctx context.Context, agentID uint, available bool) (domain.DeliveryAgent, error)
	SetActive(ctx context.Context, agentID uint, active bool) (domain.DeliveryAgent, error)
	Earnings(ctx context.Context, agentID uint, from, to time.Time) (domain.AgentEarnings, error)
}

type DeliveryHandler struct {
	deliveryService DeliveryService
	validate        *validator.Validate
	timeout         time.Duration
	now             func() time.Time
}

func NewDeliveryHandler(deliveryService DeliveryService, validate *validator.Validate) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		validate:        validate,
		timeout:         defaultTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type AgentStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type EarningQuote struct {
	OrderValue   float64              `json:"order_value"`
	DeliveryFee  float64              `json:"delivery_fee"`
	AgentEarning float64              `json:"agent_earning"`
	Tiers        []domain.EarningTier `json:"tiers"`
}

type ManualAssignRequest struct {
	AgentID uint `json:"agent_id" validate:"required"`
}

func (h *DeliveryHandler) ListAssigned(c echo.Context) error {
	statuses, err := statusesQuery(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	orders, err := h.deliveryService.ListAssigned(ctx, middleware.UserID(c), statuses)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *DeliveryHandler) GetAssigned(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.deliveryService.GetAssigned(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *DeliveryHandler) PickUp(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.deliveryService.PickUp(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *DeliveryHandler) Deliver(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.deliveryService.Deliver(ctx, middleware.UserID(c), orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *DeliveryHandler) SetAvailability(c echo.Context) error {
	var req AvailabilityRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	agent, err := h.deliveryService.SetAvailability(ctx, middleware.UserID(c), *req.Available)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(agent))
}

func (h *DeliveryHandler) Earnings(c echo.Context) error {
	from, to, err := rangeQuery(c, h.now())
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	earnings, err := h.deliveryService.Earnings(ctx, middleware.UserID(c), from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(earnings))
}

func (h *DeliveryHandler) RunAssignment(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	report, err := h.deliveryService.AssignPendingOrders(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

func (h *DeliveryHandler) ManualAssign(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req ManualAssignRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	order, err := h.deliveryService.ManualAssign(ctx, orderID, req.AgentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}

func (h *DeliveryHandler) SetAgentStatus(c echo.Context) error {
	agentID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req AgentStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	agent, err := h.deliveryService.SetActive(ctx, agentID, *req.Active)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(agent))
}

func (h *DeliveryHandler) ListAgents(c echo.Context) error {
	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()

	agents, err := h.deliveryService.ListAgents(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(agents))
}

func (h *DeliveryHandler) QuoteEarning(c echo.Context) error {
	value, err := strconv.ParseFloat(c.QueryParam("order_value"), 64)
	if err != nil {
		return serrors.With(serrors.ErrBadRequest, "invalid order_value")
	}

	earning, err := h.deliveryService.CalculateEarning(value)
	if err != nil {
		return err
	}

	schedule := h.deliveryService.Schedule()
	tier, err := schedule.Tier(value)
	if err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "cannot price delivery")
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(EarningQuote{
		OrderValue:   value,
		DeliveryFee:  tier.BaseFee,
		AgentEarning: earning,
		Tiers:        schedule.Tiers(),
	}))
}
