package posting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	selfieUploadFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liftmate_selfie_upload_fallbacks_total",
		Help: "Selfies embedded inline because the bucket upload failed",
	})

	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liftmate_posting_submissions_total",
		Help: "Posting submissions by outcome",
	}, []string{"outcome"})
)
