package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersCreated prometheus.Counter
	Verifications *prometheus.CounterVec
	WebhookEvents *prometheus.CounterVec
	GatewayOrders prometheus.Counter
	Notifications *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labdash",
			Name:      "orders_created_total",
			Help:      "Total number of lab orders created.",
		}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labdash",
			Name:      "payment_verifications_total",
			Help:      "Payment signature verifications by result.",
		}, []string{"result"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labdash",
			Name:      "webhook_events_total",
			Help:      "Gateway webhook events by type.",
		}, []string{"event"}),
		GatewayOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labdash",
			Name:      "gateway_orders_total",
			Help:      "Payment orders created at the gateway.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labdash",
			Name:      "notifications_total",
			Help:      "Confirmation notifications by channel and result.",
		}, []string{"channel", "result"}),
	}
	prometheus.MustRegister(m.OrdersCreated, m.Verifications, m.WebhookEvents, m.GatewayOrders, m.Notifications)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
