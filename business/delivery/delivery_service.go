package delivery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/metrics"
	"myMarketplace/pkg/serrors"
)

type OrdersRepository interface {
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ListUnassigned(ctx context.Context, limit int) ([]domain.Order, error)
	AssignAgent(ctx context.Context, orderID uint, a domain.Assignment, at time.Time) (bool, error)
	ActiveDeliveryCounts(ctx context.Context) (map[uint]int, error)
	CountActiveForAgent(ctx context.Context, agentID uint) (int, error)
	ListDeliveredByAgent(ctx context.Context, agentID uint, from, to time.Time) ([]domain.Order, error)
}

type AgentRepository interface {
	FindAgent(ctx context.Context, id uint) (domain.DeliveryAgent, error)
	ListAgents(ctx context.Context) ([]domain.DeliveryAgent, error)
	ListAvailableAgents(ctx context.Context) ([]domain.DeliveryAgent, error)
	SetAvailability(ctx context.Context, agentID uint, available bool) error
	SetActive(ctx context.Context, agentID uint, active bool) error
}

// OrderTransitioner applies status changes with their side effects
// (stock restore, agent credit, events).
type OrderTransitioner interface {
	TransitionOrder(ctx context.Context, order domain.Order, next domain.OrderStatus) (domain.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

type Deps struct {
	Orders      OrdersRepository
	Agents      AgentRepository
	Transitions OrderTransitioner
	Publisher   EventPublisher
	Notifier    NotificationRepository
}

type DeliveryService struct {
	orderRepo   OrdersRepository
	agentRepo   AgentRepository
	transitions OrderTransitioner
	publisher   EventPublisher
	notifRepo   NotificationRepository
	schedule    domain.EarningSchedule
	maxActive   int
	batchSize   int
}

// ScheduleFromConfig builds the three tier earning table.
func ScheduleFromConfig(cfg config.DeliveryConfig) (domain.EarningSchedule, error) {
	return domain.NewEarningSchedule([]domain.EarningTier{
		{MinOrderValue: 0, BaseFee: cfg.LowTierFee, CommissionRate: cfg.LowTierRate},
		{MinOrderValue: cfg.LowTierMax, BaseFee: cfg.MidTierFee, CommissionRate: cfg.MidTierRate},
		{MinOrderValue: cfg.MidTierMax, BaseFee: cfg.HighTierFee, CommissionRate: cfg.HighTierRate},
	})
}

func NewDeliveryService(deps Deps, cfg config.DeliveryConfig) (*DeliveryService, error) {
	schedule, err := ScheduleFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid earning tiers: %w", err)
	}
	if cfg.MaxActiveDeliveries <= 0 {
		return nil, errors.New("max active deliveries must be positive")
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}

	return &DeliveryService{
		orderRepo:   deps.Orders,
		agentRepo:   deps.Agents,
		transitions: deps.Transitions,
		publisher:   deps.Publisher,
		notifRepo:   deps.Notifier,
		schedule:    schedule,
		maxActive:   cfg.MaxActiveDeliveries,
		batchSize:   batch,
	}, nil
}

const (
	SubjectOrderAssigned   = "New delivery assigned"
	EmailBodyOrderAssigned = `Hello %v,</br></br>order %v has been assigned to you for delivery to %v, %v. Your earning: %.2f`
)

// CalculateEarning returns the agent earning for an order value.
func (s *DeliveryService) CalculateEarning(orderValue float64) (float64, error) {
	earning, err := s.schedule.Earning(orderValue)
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrBadRequest, err, "cannot calculate earning")
	}
	return earning, nil
}

func (s *DeliveryService) Schedule() domain.EarningSchedule {
	return s.schedule
}

func (s *DeliveryService) assignmentFor(order domain.Order, agentID uint) (domain.Assignment, error) {
	tier, err := s.schedule.Tier(order.TotalAmount)
	if err != nil {
		return domain.Assignment{}, err
	}
	earning, err := s.schedule.Earning(order.TotalAmount)
	if err != nil {
		return domain.Assignment{}, err
	}

	return domain.Assignment{
		OrderID:      order.ID,
		AgentID:      agentID,
		DeliveryFee:  tier.BaseFee,
		AgentEarning: earning,
	}, nil
}

// Matches reports whether the agent serves the order's location. City is
// compared case-insensitively; pincode is used only when the order has no city.
func Matches(order domain.Order, agent domain.DeliveryAgent) bool {
	city := domain.NormalizeLocation(order.ShippingCity)
	if city != "" {
		return city == domain.NormalizeLocation(agent.City)
	}

	pincode := strings.TrimSpace(order.ShippingPincode)
	return pincode != "" && pincode == strings.TrimSpace(agent.Pincode)
}

// SelectAgent picks the matching agent with the fewest active deliveries.
// Ties go to the earliest registration, then the lowest id. Capacity is
// left to the caller.
func SelectAgent(order domain.Order, agents []domain.DeliveryAgent, load map[uint]int) (domain.DeliveryAgent, bool) {
	var (
		best  domain.DeliveryAgent
		found bool
	)

	for _, agent := range agents {
		if !agent.IsActive || !agent.IsAvailable || !Matches(order, agent) {
			continue
		}
		if !found || better(agent, best, load) {
			best = agent
			found = true
		}
	}

	return best, found
}

func better(a, b domain.DeliveryAgent, load map[uint]int) bool {
	if load[a.ID] != load[b.ID] {
		return load[a.ID] < load[b.ID]
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// AssignPendingOrders runs one greedy assignment pass over the oldest
// unassigned orders.
func (s *DeliveryService) AssignPendingOrders(ctx context.Context) (domain.AssignmentReport, error) {
	start := time.Now()
	defer func() {
		metrics.DeliveryPassDuration.Observe(time.Since(start).Seconds())
	}()

	report := domain.AssignmentReport{Assignments: []domain.Assignment{}}

	orders, err := s.orderRepo.ListUnassigned(ctx, s.batchSize)
	if err != nil {
		logger.Error("failed to list unassigned orders", "error", err)
		return report, err
	}
	report.Examined = len(orders)
	if len(orders) == 0 {
		return report, nil
	}

	agents, err := s.agentRepo.ListAvailableAgents(ctx)
	if err != nil {
		logger.Error("failed to list available agents", "error", err)
		return report, err
	}
	agentsByID := make(map[uint]domain.DeliveryAgent, len(agents))
	for _, a := range agents {
		agentsByID[a.ID] = a
	}

	load, err := s.orderRepo.ActiveDeliveryCounts(ctx)
	if err != nil {
		logger.Error("failed to load active delivery counts", "error", err)
		return report, err
	}

	for _, order := range orders {
		if order.DeliveryAgentID != nil || !order.Status.CanTransitionTo(domain.OrderStatusAssigned) {
			report.Skipped++
			continue
		}

		agent, ok := SelectAgent(order, agents, load)
		if !ok || load[agent.ID] >= s.maxActive {
			report.Skipped++
			continue
		}

		assignment, err := s.assignmentFor(order, agent.ID)
		if err != nil {
			logger.Warn("skipping order with invalid value", "order_id", order.ID, "error", err)
			report.Skipped++
			continue
		}

		now := time.Now().UTC()
		written, err := s.orderRepo.AssignAgent(ctx, order.ID, assignment, now)
		if err != nil {
			logger.Error("failed to assign order", "order_id", order.ID, "agent_id", agent.ID, "error", err)
			s.recordPass(report)
			return report, err
		}
		if !written {
			report.Skipped++
			continue
		}

		load[agent.ID]++
		report.Assigned++
		report.Assignments = append(report.Assignments, assignment)

		s.afterAssign(ctx, order, agentsByID[agent.ID], assignment, now)
	}

	s.recordPass(report)
	if report.Assigned > 0 {
		logger.Info("assignment pass finished", "examined", report.Examined, "assigned", report.Assigned, "skipped", report.Skipped)
	}

	return report, nil
}

func (s *DeliveryService) recordPass(report domain.AssignmentReport) {
	metrics.DeliveryAssigned.Add(float64(report.Assigned))
	metrics.DeliverySkipped.Add(float64(report.Skipped))
}

func (s *DeliveryService) afterAssign(ctx context.Context, order domain.Order, agent domain.DeliveryAgent, a domain.Assignment, at time.Time) {
	previous := order.Status
	order.Status = domain.OrderStatusAssigned
	order.DeliveryAgentID = &a.AgentID
	order.DeliveryFee = a.DeliveryFee
	order.AgentEarning = a.AgentEarning
	order.AssignedAt = &at

	if err := s.publisher.Publish(ctx, domain.NewOrderEvent(domain.EventOrderAssigned, order, previous)); err != nil {
		logger.Warn("failed to publish assignment event", "order_id", order.ID, "error", err)
	}

	if agent.Email == "" {
		return
	}
	err := s.notifRepo.SendEmail(ctx, agent.FullName, agent.Email, SubjectOrderAssigned,
		fmt.Sprintf(EmailBodyOrderAssigned, agent.FullName, order.OrderNumber, order.ShippingLine1, order.ShippingCity, a.AgentEarning))
	if err != nil {
		logger.Warn("failed to notify agent", "agent_id", agent.ID, "order_id", order.ID, "error", err)
	}
}

// ManualAssign attaches an order to a specific agent, honoring the
// capacity cap.
func (s *DeliveryService) ManualAssign(ctx context.Context, orderID, agentID uint) (domain.Order, error) {
	agent, err := s.agentRepo.FindAgent(ctx, agentID)
	if err != nil {
		return domain.Order{}, err
	}
	if !agent.IsActive {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "delivery agent is deactivated")
	}

	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.DeliveryAgentID != nil {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "order is already assigned")
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusAssigned) {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "order in status %s cannot be assigned", order.Status)
	}

	active, err := s.orderRepo.CountActiveForAgent(ctx, agentID)
	if err != nil {
		return domain.Order{}, err
	}
	if active >= s.maxActive {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "delivery agent is at capacity (%d active)", active)
	}

	assignment, err := s.assignmentFor(order, agentID)
	if err != nil {
		return domain.Order{}, serrors.Wrap(serrors.ErrBadRequest, err, "cannot price delivery")
	}

	now := time.Now().UTC()
	written, err := s.orderRepo.AssignAgent(ctx, orderID, assignment, now)
	if err != nil {
		logger.Error("failed to assign order", "order_id", orderID, "agent_id", agentID, "error", err)
		return domain.Order{}, err
	}
	if !written {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "order was assigned concurrently")
	}

	metrics.DeliveryAssigned.Inc()
	s.afterAssign(ctx, order, agent, assignment, now)

	return s.orderRepo.GetOrder(ctx, orderID)
}

func (s *DeliveryService) ListAgents(ctx context.Context) ([]domain.DeliveryAgent, error) {
	return s.agentRepo.ListAgents(ctx)
}

func (s *DeliveryService) ListAssigned(ctx context.Context, agentID uint, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return s.orderRepo.ListOrders(ctx, domain.OrderFilter{AgentID: &agentID, Statuses: statuses})
}

func (s *DeliveryService) GetAssigned(ctx context.Context, agentID, orderID uint) (domain.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.IsAssignedTo(agentID) {
		return domain.Order{}, serrors.With(serrors.ErrNotFound, "order not found")
	}
	return order, nil
}

// PickUp moves an ASSIGNED order to SHIPPED.
func (s *DeliveryService) PickUp(ctx context.Context, agentID, orderID uint) (domain.Order, error) {
	order, err := s.GetAssigned(ctx, agentID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.Status != domain.OrderStatusAssigned {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "only assigned orders can be picked up")
	}

	return s.transitions.TransitionOrder(ctx, order, domain.OrderStatusShipped)
}

// Deliver completes an ASSIGNED or SHIPPED order and credits the agent.
func (s *DeliveryService) Deliver(ctx context.Context, agentID, orderID uint) (domain.Order, error) {
	order, err := s.GetAssigned(ctx, agentID, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	return s.transitions.TransitionOrder(ctx, order, domain.OrderStatusDelivered)
}

func (s *DeliveryService) SetAvailability(ctx context.Context, agentID uint, available bool) (domain.DeliveryAgent, error) {
	if err := s.agentRepo.SetAvailability(ctx, agentID, available); err != nil {
		return domain.DeliveryAgent{}, err
	}
	return s.agentRepo.FindAgent(ctx, agentID)
}

// SetActive enables or disables an agent account. Disabled agents cannot log
// in and are never picked by an assignment pass.
func (s *DeliveryService) SetActive(ctx context.Context, agentID uint, active bool) (domain.DeliveryAgent, error) {
	if err := s.agentRepo.SetActive(ctx, agentID, active); err != nil {
		return domain.DeliveryAgent{}, err
	}

	logger.Info("delivery agent status changed", "agent_id", agentID, "active", active)
	return s.agentRepo.FindAgent(ctx, agentID)
}

// Earnings summarises deliveries completed in [from, to) with a per-day
// breakdown in UTC.
func (s *DeliveryService) Earnings(ctx context.Context, agentID uint, from, to time.Time) (domain.AgentEarnings, error) {
	if !from.Before(to) {
		return domain.AgentEarnings{}, serrors.With(serrors.ErrBadRequest, "from must be before to")
	}

	agent, err := s.agentRepo.FindAgent(ctx, agentID)
	if err != nil {
		return domain.AgentEarnings{}, err
	}

	orders, err := s.orderRepo.ListDeliveredByAgent(ctx, agentID, from, to)
	if err != nil {
		logger.Error("failed to list delivered orders", "agent_id", agentID, "error", err)
		return domain.AgentEarnings{}, err
	}

	result := domain.AgentEarnings{
		AgentID:          agentID,
		From:             from,
		To:               to,
		DeliveredCount:   len(orders),
		LifetimeEarnings: domain.RoundMoney(agent.TotalEarnings),
		Daily:            []domain.DailyEarning{},
	}

	days := map[string]*domain.DailyEarning{}
	for _, o := range orders {
		result.PeriodEarnings += o.AgentEarning

		day := o.UpdatedAt
		if o.DeliveredAt != nil {
			day = *o.DeliveredAt
		}
		key := day.UTC().Format(time.DateOnly)
		d, ok := days[key]
		if !ok {
			d = &domain.DailyEarning{Date: key}
			days[key] = d
		}
		d.Deliveries++
		d.Earnings += o.AgentEarning
	}

	for _, d := range days {
		d.Earnings = domain.RoundMoney(d.Earnings)
		result.Daily = append(result.Daily, *d)
	}
	sort.Slice(result.Daily, func(i, j int) bool { return result.Daily[i].Date < result.Daily[j].Date })
	result.PeriodEarnings = domain.RoundMoney(result.PeriodEarnings)

	return result, nil
}
