package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Orders matched to a delivery agent by the assignment pass or manually
	DeliveryAssigned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_orders_assigned_total",
		Help: "Total orders assigned to delivery agents",
	})

	// Orders left unassigned by a pass (no candidate or capacity reached)
	DeliverySkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_orders_skipped_total",
		Help: "Total orders examined but left unassigned",
	})

	DeliveryPassDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "delivery_assignment_pass_seconds",
		Help:    "Duration of a delivery assignment pass",
		Buckets: prometheus.DefBuckets,
	})

	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total orders placed through checkout",
	})

	OrderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions by target status",
	}, []string{"status"})
)

func Init() {
	prometheus.MustRegister(
		DeliveryAssigned,
		DeliverySkipped,
		DeliveryPassDuration,
		OrdersCreated,
		OrderTransitions,
	)
}
