package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	LookupsTotal       prometheus.Counter
	LookupErrors       prometheus.Counter
	LookupDuration     prometheus.Histogram
	RemindersScheduled prometheus.Counter
	RemindersFired     prometheus.Counter
	RemindersCanceled  prometheus.Counter
	DeliveryFailures   prometheus.Counter
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		LookupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lookups_total",
			Help:      "The total number of flight provider lookups",
		}),
		LookupErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lookup_errors_total",
			Help:      "The total number of failed flight provider lookups",
		}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flight_lookup_duration_seconds",
			Help:      "Time taken by flight provider lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		RemindersScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_scheduled_total",
			Help:      "The total number of reminder jobs installed",
		}),
		RemindersFired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "The total number of reminder jobs that fired",
		}),
		RemindersCanceled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_canceled_total",
			Help:      "The total number of reminder jobs canceled before firing",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_delivery_failures_total",
			Help:      "The total number of reminder deliveries that failed",
		}),
	}
}
