package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estatehub_listings_created_total",
			Help: "Listings created",
		},
	)

	listingsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatehub_listings_published_total",
			Help: "Listings made public, by path",
		},
		[]string{"via"},
	)

	enquiriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estatehub_enquiries_total",
			Help: "Enquiries submitted",
		},
	)

	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatehub_payments_total",
			Help: "Payment outcomes",
		},
		[]string{"status"},
	)

	eventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estatehub_event_publish_failures_total",
			Help: "Events that could not be delivered",
		},
		[]string{"topic"},
	)
)
