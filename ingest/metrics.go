package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pawfeed_ingest_posts_accepted_total",
		Help: "Number of posts accepted by the ingest pipeline",
	})

	postsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_ingest_posts_rejected_total",
		Help: "Number of posts rejected by the ingest pipeline",
	}, []string{"reason"})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pawfeed_ingest_queue_depth",
		Help: "Number of posts waiting in the ingest queue",
	})
)
