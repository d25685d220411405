package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LatestHeadBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "syncer",
		Subsystem: "cursor",
		Name:      "latest_head_block",
		Help:      "Shows the latest chain head block seen by the syncer.",
	})
	LastProcessedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "syncer",
		Subsystem: "cursor",
		Name:      "last_processed_block",
		Help:      "Shows the latest block scanned for all tracked addresses.",
	})
	TrackedAddresses = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "syncer",
		Subsystem: "registry",
		Name:      "tracked_addresses",
		Help:      "Shows the number of active event addresses scanned in the current cycle.",
	})
	FetchedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "syncer",
		Subsystem: "scanner",
		Name:      "fetched_events_total",
	})
	ProcessedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "syncer",
		Subsystem: "projector",
		Name:      "processed_events_total",
	}, []string{"status"})
)
