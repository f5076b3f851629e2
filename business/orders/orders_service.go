package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/config"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/metrics"
	"myMarketplace/pkg/serrors"

	"github.com/google/uuid"
)

type OrdersRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	TransitionStatus(ctx context.Context, id uint, from, to domain.OrderStatus, at time.Time) (bool, error)
}

type CartRepository interface {
	ListByBuyer(ctx context.Context, buyerID uint) ([]domain.CartItem, error)
	Clear(ctx context.Context, buyerID uint) error
}

type AddressRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Address, error)
}

type ProductRepository interface {
	DecrementStock(ctx context.Context, id uint, qty int) (bool, error)
	IncrementStock(ctx context.Context, id uint, qty int) error
}

// AgentLedger credits delivery agents when their orders are delivered.
type AgentLedger interface {
	AddEarnings(ctx context.Context, agentID uint, amount float64) error
}

type AccountFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Account, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrdersService struct {
	orderRepo   OrdersRepository
	cartRepo    CartRepository
	addressRepo AddressRepository
	productRepo ProductRepository
	ledger      AgentLedger
	buyers      AccountFinder
	publisher   EventPublisher
	notifRepo   NotificationRepository
	tx          Transactor
	cfg         config.CheckoutConfig
}

type Deps struct {
	Orders    OrdersRepository
	Carts     CartRepository
	Addresses AddressRepository
	Products  ProductRepository
	Ledger    AgentLedger
	Buyers    AccountFinder
	Publisher EventPublisher
	Notifier  NotificationRepository
	Tx        Transactor
}

func NewOrdersService(deps Deps, cfg config.CheckoutConfig) *OrdersService {
	return &OrdersService{
		orderRepo:   deps.Orders,
		cartRepo:    deps.Carts,
		addressRepo: deps.Addresses,
		productRepo: deps.Products,
		ledger:      deps.Ledger,
		buyers:      deps.Buyers,
		publisher:   deps.Publisher,
		notifRepo:   deps.Notifier,
		tx:          deps.Tx,
		cfg:         cfg,
	}
}

const (
	SubjectOrderPlaced   = "Your order has been placed"
	EmailBodyOrderPlaced = `Hello %v,</br></br>thanks for your order %v. Total payable on delivery: %.2f`
)

// ShippingFeeFor returns the flat fee, waived at or above the free shipping threshold.
func (s *OrdersService) ShippingFeeFor(subtotal float64) float64 {
	if s.cfg.FreeShippingThreshold > 0 && subtotal >= s.cfg.FreeShippingThreshold {
		return 0
	}
	return s.cfg.ShippingFee
}

// Checkout turns the buyer's cart into a PENDING order in one transaction.
func (s *OrdersService) Checkout(ctx context.Context, buyerID, addressID uint) (domain.Order, error) {
	var order domain.Order

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cartItems, err := s.cartRepo.ListByBuyer(ctx, buyerID)
		if err != nil {
			return err
		}

		address, err := s.addressRepo.FindByID(ctx, addressID)
		if err != nil || address.BuyerID != buyerID {
			if err == nil || errors.Is(err, serrors.ErrNotFound) {
				return serrors.With(serrors.ErrNotFound, "address not found")
			}
			return err
		}

		items := make([]domain.OrderItem, 0, len(cartItems))
		var subtotal float64
		for _, ci := range cartItems {
			if ci.Product == nil {
				continue
			}

			ok, err := s.productRepo.DecrementStock(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return serrors.With(serrors.ErrConflict, "insufficient stock for %q", ci.Product.Name)
			}

			line := domain.RoundMoney(ci.Product.Price * float64(ci.Quantity))
			items = append(items, domain.OrderItem{
				ProductID:   ci.ProductID,
				SellerID:    ci.Product.SellerID,
				ProductName: ci.Product.Name,
				UnitPrice:   ci.Product.Price,
				Quantity:    ci.Quantity,
				LineTotal:   line,
			})
			subtotal += line
		}
		if len(items) == 0 {
			return serrors.With(serrors.ErrBadRequest, "cart is empty")
		}

		subtotal = domain.RoundMoney(subtotal)
		fee := s.ShippingFeeFor(subtotal)

		order = domain.Order{
			OrderNumber:     uuid.NewString(),
			BuyerID:         buyerID,
			AddressID:       address.ID,
			ShippingName:    address.RecipientName,
			ShippingPhone:   address.Phone,
			ShippingLine1:   address.Line1,
			ShippingLine2:   address.Line2,
			ShippingCity:    address.City,
			ShippingState:   address.State,
			ShippingPincode: address.Pincode,
			Status:          domain.OrderStatusPending,
			Subtotal:        subtotal,
			ShippingFee:     fee,
			TotalAmount:     domain.RoundMoney(subtotal + fee),
			Items:           items,
		}
		if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
			return err
		}

		return s.cartRepo.Clear(ctx, buyerID)
	})
	if err != nil {
		if serrors.HTTPStatus(err) >= 500 {
			logger.Error("checkout failed", "buyer_id", buyerID, "error", err)
		}
		return domain.Order{}, err
	}

	metrics.OrdersCreated.Inc()
	s.publish(ctx, domain.NewOrderEvent(domain.EventOrderCreated, order, ""))
	s.notifyBuyer(ctx, order)

	return order, nil
}

func (s *OrdersService) notifyBuyer(ctx context.Context, order domain.Order) {
	buyer, err := s.buyers.FindByID(ctx, order.BuyerID)
	if err != nil {
		logger.Warn("failed to load buyer for order email", "order_id", order.ID, "error", err)
		return
	}

	err = s.notifRepo.SendEmail(ctx, buyer.AccountName(), buyer.AccountEmail(), SubjectOrderPlaced,
		fmt.Sprintf(EmailBodyOrderPlaced, buyer.AccountName(), order.OrderNumber, order.TotalAmount))
	if err != nil {
		logger.Warn("failed to send order email", "order_id", order.ID, "error", err)
	}
}

func (s *OrdersService) publish(ctx context.Context, event domain.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish order event", "type", event.Type, "order_id", event.OrderID, "error", err)
	}
}

func (s *OrdersService) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	return s.orderRepo.GetOrder(ctx, id)
}

func (s *OrdersService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		logger.Error("failed to list orders", "error", err)
		return nil, err
	}
	return orders, nil
}

func (s *OrdersService) ListBuyerOrders(ctx context.Context, buyerID uint, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return s.ListOrders(ctx, domain.OrderFilter{BuyerID: &buyerID, Statuses: statuses})
}

func (s *OrdersService) ListSellerOrders(ctx context.Context, sellerID uint, statuses []domain.OrderStatus) ([]domain.Order, error) {
	return s.ListOrders(ctx, domain.OrderFilter{SellerID: &sellerID, Statuses: statuses})
}

func (s *OrdersService) GetBuyerOrder(ctx context.Context, buyerID, orderID uint) (domain.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.BuyerID != buyerID {
		return domain.Order{}, serrors.With(serrors.ErrNotFound, "order not found")
	}
	return order, nil
}

func (s *OrdersService) GetSellerOrder(ctx context.Context, sellerID, orderID uint) (domain.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.HasSeller(sellerID) {
		return domain.Order{}, serrors.With(serrors.ErrNotFound, "order not found")
	}
	return order, nil
}

// CancelByBuyer is allowed while the order is PENDING or PROCESSING.
func (s *OrdersService) CancelByBuyer(ctx context.Context, buyerID, orderID uint) (domain.Order, error) {
	order, err := s.GetBuyerOrder(ctx, buyerID, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusProcessing {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "order can no longer be cancelled")
	}

	return s.transition(ctx, order, domain.OrderStatusCancelled)
}

var sellerTransitions = map[domain.OrderStatus]domain.OrderStatus{
	domain.OrderStatusProcessing: domain.OrderStatusPending,
	domain.OrderStatusShipped:    domain.OrderStatusProcessing,
}

// UpdateStatusBySeller lets a seller accept an order (PENDING -> PROCESSING)
// or ship it themselves (PROCESSING -> SHIPPED).
func (s *OrdersService) UpdateStatusBySeller(ctx context.Context, sellerID, orderID uint, next domain.OrderStatus) (domain.Order, error) {
	order, err := s.GetSellerOrder(ctx, sellerID, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	from, ok := sellerTransitions[next]
	if !ok {
		return domain.Order{}, serrors.With(serrors.ErrForbidden, "sellers cannot set status %s", next)
	}
	if order.Status != from {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "cannot move order from %s to %s", order.Status, next)
	}

	return s.transition(ctx, order, next)
}

// Transition applies any legal status change. ASSIGNED is reserved for the
// delivery assignment flow.
func (s *OrdersService) Transition(ctx context.Context, orderID uint, next domain.OrderStatus) (domain.Order, error) {
	if !next.Valid() {
		return domain.Order{}, serrors.With(serrors.ErrBadRequest, "unknown status %q", next)
	}
	if next == domain.OrderStatusAssigned {
		return domain.Order{}, serrors.With(serrors.ErrBadRequest, "use delivery assignment to assign orders")
	}

	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	return s.transition(ctx, order, next)
}

// TransitionOrder is Transition for callers that already loaded the order.
func (s *OrdersService) TransitionOrder(ctx context.Context, order domain.Order, next domain.OrderStatus) (domain.Order, error) {
	return s.transition(ctx, order, next)
}

func (s *OrdersService) transition(ctx context.Context, order domain.Order, next domain.OrderStatus) (domain.Order, error) {
	prev := order.Status
	if !prev.CanTransitionTo(next) {
		return domain.Order{}, serrors.With(serrors.ErrConflict, "cannot move order from %s to %s", prev, next)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.orderRepo.TransitionStatus(ctx, order.ID, prev, next, time.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return serrors.With(serrors.ErrConflict, "order status changed, reload and retry")
		}

		switch next {
		case domain.OrderStatusCancelled:
			for _, it := range order.Items {
				if err := s.productRepo.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		case domain.OrderStatusDelivered:
			if order.DeliveryAgentID != nil && order.AgentEarning > 0 {
				if err := s.ledger.AddEarnings(ctx, *order.DeliveryAgentID, order.AgentEarning); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	updated, err := s.orderRepo.GetOrder(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}

	metrics.OrderTransitions.WithLabelValues(next.String()).Inc()
	s.publish(ctx, domain.NewOrderEvent(domain.EventOrderStatusChanged, updated, prev))
	logger.Info("order status changed", "order_id", order.ID, "from", prev, "to", next)

	return updated, nil
}
