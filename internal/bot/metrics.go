package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	CallbacksProcessed   prometheus.Counter
	FeedLoads            *prometheus.CounterVec
	PaymentsTotal        *prometheus.CounterVec
	BookingsCreated      prometheus.Counter
	UploadsTotal         *prometheus.CounterVec
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		UpdatesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "updates_processed_total",
			Help:      "Total number of processed updates",
		}),

		CallbacksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "callbacks_processed_total",
			Help:      "Total number of processed callback queries",
		}),

		FeedLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "feed_loads_total",
			Help:      "Feed loads by section and outcome",
		}, []string{"section", "outcome"}),

		PaymentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "payments_total",
			Help:      "Payment outcomes",
		}, []string{"result"}),

		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "bookings_created_total",
			Help:      "Bookings recorded against the backend",
		}),

		UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "uploads_total",
			Help:      "Media uploads by outcome",
		}, []string{"outcome"}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "urbannest_bot",
			Name:      "errors_total",
			Help:      "Total number of errors",
		}),

		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "urbannest_bot",
			Name:      "update_processing_time_seconds",
			Help:      "Time spent processing updates",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
