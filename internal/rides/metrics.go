package rides

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ridesPostedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liftmate",
		Name:      "rides_posted_total",
		Help:      "Rides inserted, by ride and post type",
	}, []string{"ride_type", "post_type"})

	listingErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liftmate",
		Name:      "listing_errors_total",
		Help:      "Failed listing loads, by kind (paused or generic)",
	}, []string{"kind"})
)
