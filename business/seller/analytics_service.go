package seller

import (
	"context"
	"sort"
	"time"

	"myMarketplace/domain"
	"myMarketplace/pkg/logger"
	"myMarketplace/pkg/serrors"
)

// OrderLineRepository contract interface
type OrderLineRepository interface {
	SellerLines(ctx context.Context, sellerID uint, from, to time.Time) ([]domain.SellerOrderLine, error)
}

// StockRepository contract interface
type StockRepository interface {
	FindLowStock(ctx context.Context, sellerID uint, threshold int) ([]domain.Product, error)
}

const topProductsLimit = 5

type analyticsService struct {
	lineRepo          OrderLineRepository
	stockRepo         StockRepository
	lowStockThreshold int
}

func NewAnalyticsService(lineRepo OrderLineRepository, stockRepo StockRepository, lowStockThreshold int) *analyticsService {
	return &analyticsService{
		lineRepo:          lineRepo,
		stockRepo:         stockRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// Analytics aggregates the seller's non-cancelled sales for orders created
// in [from, to).
func (s *analyticsService) Analytics(ctx context.Context, sellerID uint, from, to time.Time) (domain.SellerAnalytics, error) {
	if !from.Before(to) {
		return domain.SellerAnalytics{}, serrors.With(serrors.ErrBadRequest, "from must be before to")
	}

	lines, err := s.lineRepo.SellerLines(ctx, sellerID, from, to)
	if err != nil {
		logger.Error("failed to load seller order lines", "seller_id", sellerID, "error", err)
		return domain.SellerAnalytics{}, err
	}

	lowStock, err := s.stockRepo.FindLowStock(ctx, sellerID, s.lowStockThreshold)
	if err != nil {
		logger.Error("failed to load low stock products", "seller_id", sellerID, "error", err)
		return domain.SellerAnalytics{}, err
	}

	result := Aggregate(lines)
	result.SellerID = sellerID
	result.From = from
	result.To = to
	result.LowStockProducts = lowStock

	return result, nil
}

// Aggregate folds order lines into the analytics figures. Cancelled orders
// are ignored.
func Aggregate(lines []domain.SellerOrderLine) domain.SellerAnalytics {
	result := domain.SellerAnalytics{
		RevenueByStatus: map[domain.OrderStatus]float64{},
		TopProducts:     []domain.ProductSales{},
		DailyRevenue:    []domain.DailyRevenue{},
	}

	orders := map[uint]struct{}{}
	products := map[uint]*domain.ProductSales{}
	days := map[string]*domain.DailyRevenue{}
	dayOrders := map[string]map[uint]struct{}{}

	for _, l := range lines {
		if l.Status == domain.OrderStatusCancelled {
			continue
		}

		revenue := l.UnitPrice * float64(l.Quantity)
		result.TotalRevenue += revenue
		result.UnitsSold += l.Quantity
		result.RevenueByStatus[l.Status] += revenue
		orders[l.OrderID] = struct{}{}

		p, ok := products[l.ProductID]
		if !ok {
			p = &domain.ProductSales{ProductID: l.ProductID, ProductName: l.ProductName}
			products[l.ProductID] = p
		}
		p.UnitsSold += l.Quantity
		p.Revenue += revenue

		key := l.CreatedAt.UTC().Format(time.DateOnly)
		d, ok := days[key]
		if !ok {
			d = &domain.DailyRevenue{Date: key}
			days[key] = d
			dayOrders[key] = map[uint]struct{}{}
		}
		d.Revenue += revenue
		dayOrders[key][l.OrderID] = struct{}{}
	}

	result.TotalOrders = len(orders)
	result.TotalRevenue = domain.RoundMoney(result.TotalRevenue)
	if result.TotalOrders > 0 {
		result.AverageOrderValue = domain.RoundMoney(result.TotalRevenue / float64(result.TotalOrders))
	}
	for status, v := range result.RevenueByStatus {
		result.RevenueByStatus[status] = domain.RoundMoney(v)
	}

	for _, p := range products {
		p.Revenue = domain.RoundMoney(p.Revenue)
		result.TopProducts = append(result.TopProducts, *p)
	}
	sort.Slice(result.TopProducts, func(i, j int) bool {
		a, b := result.TopProducts[i], result.TopProducts[j]
		if a.UnitsSold != b.UnitsSold {
			return a.UnitsSold > b.UnitsSold
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.ProductID < b.ProductID
	})
	if len(result.TopProducts) > topProductsLimit {
		result.TopProducts = result.TopProducts[:topProductsLimit]
	}

	for key, d := range days {
		d.Orders = len(dayOrders[key])
		d.Revenue = domain.RoundMoney(d.Revenue)
		result.DailyRevenue = append(result.DailyRevenue, *d)
	}
	sort.Slice(result.DailyRevenue, func(i, j int) bool {
		return result.DailyRevenue[i].Date < result.DailyRevenue[j].Date
	})

	return result
}
