// SPDX-License-Identifier: MIT

// Package metrics defines the Prometheus instrumentation for retrogate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retrogate_upstream_retries_total",
		Help: "Total number of retried upstream request attempts",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrogate_media_cache_lookups_total",
		Help: "Media cache lookups by outcome (hit, miss)",
	}, []string{"outcome"})

	Downloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrogate_media_downloads_total",
		Help: "Media downloads by outcome (ok, error)",
	}, []string{"outcome"})

	DownloadsShared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retrogate_media_downloads_shared_total",
		Help: "Download results served to waiters that joined an in-flight download",
	})

	Thumbnails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrogate_thumbnails_total",
		Help: "Thumbnail derivations by outcome (cached, rendered, error)",
	}, []string{"outcome"})

	SweeperDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retrogate_sweeper_deletions_total",
		Help: "Cache files removed by the retention sweeper, per directory",
	}, []string{"dir"})

	DeviceRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retrogate_device_registrations_total",
		Help: "Total device registrations issued",
	})

	FeedItemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retrogate_feed_items_dropped_total",
		Help: "Feed items dropped from fan-out enrichment due to error or timeout",
	})
)

// RecordCacheLookup records a media cache lookup outcome.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}
