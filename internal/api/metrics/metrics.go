// Package metrics defines and registers all custom Prometheus metrics for
// the listings API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "listings"

// PropertiesCreatedTotal counts successfully created listings.
var PropertiesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_created_total",
		Help:      "Total number of property listings created.",
	},
)

// PropertiesDeletedTotal counts hard-deleted listings.
var PropertiesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_deleted_total",
		Help:      "Total number of property listings deleted.",
	},
)

// UploadsTotal counts stored image files.
// Label:
//   - kind: "main" or "gallery"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image files written to the upload directory.",
	},
	[]string{"kind"},
)

// UploadsRejectedTotal counts rejected upload attempts.
// Label:
//   - reason: "too_large", "unsupported_type" or "too_many_files"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of upload files rejected during validation.",
	},
	[]string{"reason"},
)

// ThumbnailJobsTotal counts background thumbnail generation outcomes.
// Label:
//   - result: "ok" or "error"
var ThumbnailJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "thumbnail_jobs_total",
		Help:      "Total number of thumbnail generation jobs, by result.",
	},
	[]string{"result"},
)

// ThumbnailDuration measures how long a single thumbnail job takes.
var ThumbnailDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "thumbnail_duration_seconds",
		Help:      "Duration of thumbnail generation from dequeue to written variant.",
		Buckets:   prometheus.DefBuckets,
	},
)
