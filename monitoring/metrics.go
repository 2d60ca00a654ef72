package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Order attempts by outcome",
		},
		[]string{"status"},
	)

	orderRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_rejections_total",
			Help: "User-correctable order rejections by reason code",
		},
		[]string{"code"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Individual tickets minted by completed reservations",
		},
	)

	promoApplications = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "promo_applications_total",
			Help: "Orders that successfully applied a promo code",
		},
	)
)

func TrackOrder(status string) {
	ordersTotal.WithLabelValues(status).Inc()
}

func TrackOrderRejection(code string) {
	orderRejections.WithLabelValues(code).Inc()
}

func TrackTicketsIssued(count int) {
	ticketsIssued.Add(float64(count))
}

func TrackPromoApplication() {
	promoApplications.Inc()
}
